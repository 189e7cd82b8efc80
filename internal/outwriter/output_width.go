package outwriter

import (
	"os"

	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/schema"
	"golang.org/x/term"
)

// getTerminalWidth returns the width override, the detected terminal width,
// or a conservative default when neither is available.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxBarWidth calculates the width of the bar column of a chart table.
func getMaxBarWidth(cfg *contract.Config, labels schema.LabelMode) int {
	// Day + Value columns with borders/padding
	baseWidth := 20
	if labels == schema.LongLabels {
		baseWidth += 20
	}
	available := getTerminalWidth(cfg) - baseWidth
	if available < 10 {
		return 10
	}
	if available > 60 {
		return 60
	}
	return available
}

// getMaxIDWidth calculates the maximum width for content IDs in the ranking table.
func getMaxIDWidth(cfg *contract.Config) int {
	// Position + Created + three counters + Score with borders/padding
	available := getTerminalWidth(cfg) - 75
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
