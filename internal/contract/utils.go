package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Trend label constants.
const (
	UpValue   = "Up"   // Up value
	DownValue = "Down" // Down value
	FlatValue = "Flat" // Flat value
	NoneValue = "n/a"  // No trend available
)

// Color variables for console output.
var (
	UpColor   = color.New(color.FgGreen, color.Bold) // UpColor marks growth.
	DownColor = color.New(color.FgRed, color.Bold)   // DownColor marks decline.
	FlatColor = color.New(color.FgYellow)            // FlatColor marks no change.
	NoneColor = color.New(color.FgHiBlack)           // NoneColor marks missing data.
)

// GetPlainTrendLabel returns a plain direction label for a trend ratio.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainTrendLabel(trend float64, ok bool) string {
	switch {
	case !ok:
		return NoneValue
	case trend > 0:
		return UpValue
	case trend < 0:
		return DownValue
	default:
		return FlatValue
	}
}

// GetColorTrendLabel returns a colored direction label for console output (table).
func GetColorTrendLabel(trend float64, ok bool) string {
	text := GetPlainTrendLabel(trend, ok)

	switch text {
	case UpValue:
		return UpColor.Sprint(text)
	case DownValue:
		return DownColor.Sprint(text)
	case FlatValue:
		return FlatColor.Sprint(text)
	default:
		return NoneColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn().Err(err).Msg(msg)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tootstats.db"
	}
	return filepath.Join(homeDir, ".tootstats.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for result caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tootstats_cache.db"
	}
	return filepath.Join(homeDir, ".tootstats_cache.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
