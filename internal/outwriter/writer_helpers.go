package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/huangsam/tootstats/internal/contract"
	"github.com/huangsam/tootstats/internal/parquet"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeParquet writes rows to the configured output file. Parquet is binary,
// so stdout is never a destination.
func writeParquet[T any](rows []T, outputFile string, successMsg string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	if err := parquet.WriteFile(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// formatters renders numbers for tables in the reader's locale.
type formatters struct {
	printer   *message.Printer
	precision int
}

// createFormatters creates the formatters used by the table writers.
func createFormatters(tag language.Tag, precision int) formatters {
	return formatters{printer: message.NewPrinter(tag), precision: precision}
}

// int formats an integer with locale grouping.
func (f formatters) int(v int64) string {
	return f.printer.Sprintf("%d", v)
}

// optional formats a nullable integer, rendering nil as the missing-data label.
func (f formatters) optional(v *int64) string {
	if v == nil {
		return contract.NoneValue
	}
	return f.int(*v)
}

// percent formats a ratio as a signed percentage.
func (f formatters) percent(v *float64) string {
	if v == nil {
		return contract.NoneValue
	}
	pct := *v * 100
	sign := ""
	switch {
	case pct > 0:
		sign = "+"
	case pct < 0:
		sign = "-"
		pct = -pct
	}
	return sign + f.printer.Sprintf("%.*f%%", f.precision, pct)
}

// csvOptional renders a nullable integer for CSV, leaving absent values empty.
func csvOptional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// csvRatio renders a nullable ratio for CSV, leaving absent values empty.
func csvRatio(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', precision+2, 64)
}

// trendLabel returns the direction label of a trend, colored when enabled.
func trendLabel(trend *float64, useColors bool) string {
	value, ok := 0.0, trend != nil
	if ok {
		value = *trend
	}
	if useColors {
		return contract.GetColorTrendLabel(value, ok)
	}
	return contract.GetPlainTrendLabel(value, ok)
}

// titleCase upper-cases the first letter of an ASCII identifier such as a metric name.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
