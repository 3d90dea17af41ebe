// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && isTerminal(),
	}
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.colored(ColorGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.colored(ColorRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.colored(ColorYellow, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.colored(ColorCyan, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.colored(ColorBold, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.colored(ColorDim, format, args...)
}

// colored prints a colored message.
func (o *Output) colored(color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s%s%s\n", color, msg, ColorReset)
	} else {
		fmt.Fprintln(o.writer, msg)
	}
}

// ColoredString returns a colored string without newline.
func (o *Output) ColoredString(color, text string) string {
	if o.colorEnabled {
		return color + text + ColorReset
	}
	return text
}

// Green returns green colored text.
func (o *Output) Green(text string) string {
	return o.ColoredString(ColorGreen, text)
}

// Red returns red colored text.
func (o *Output) Red(text string) string {
	return o.ColoredString(ColorRed, text)
}

// BoldText returns bold text.
func (o *Output) BoldText(text string) string {
	return o.ColoredString(ColorBold, text)
}

// PnLColor returns the appropriate color for P&L.
func (o *Output) PnLColor(pnl float64) string {
	if pnl > 0 {
		return ColorGreen
	} else if pnl < 0 {
		return ColorRed
	}
	return ColorWhite
}

// FormatPnL formats P&L with sign and color.
func (o *Output) FormatPnL(pnl float64) string {
	formatted := FormatPrice(pnl)
	if pnl > 0 {
		formatted = "+" + formatted
	}
	return o.ColoredString(o.PnLColor(pnl), formatted)
}

// Table represents a simple table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(stripANSI(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				cellLen := len(stripANSI(cell))
				if cellLen > widths[i] {
					widths[i] = cellLen
				}
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)

	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i < len(widths) {
			padding := widths[i] - len(stripANSI(cell))
			if padding < 0 {
				padding = 0
			}
			padded := strings.Repeat(" ", padding) + cell
			if isHeader && t.output.colorEnabled {
				padded = ColorBold + padded + ColorReset
			}
			parts = append(parts, padded)
		}
	}
	t.output.Println(strings.Join(parts, "  "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	sep := strings.Join(parts, "──")
	if t.output.colorEnabled {
		sep = ColorDim + sep + ColorReset
	}
	t.output.Println(sep)
}

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	result := s
	escapes := []string{
		ColorReset, ColorRed, ColorGreen, ColorYellow,
		ColorCyan, ColorWhite, ColorBold, ColorDim,
	}
	for _, esc := range escapes {
		result = strings.ReplaceAll(result, esc, "")
	}
	return result
}

// Box draws a box around content, used for the call/put metric cards.
func (o *Output) Box(title string, content []string) {
	maxLen := len(title)
	for _, line := range content {
		lineLen := len(stripANSI(line))
		if lineLen > maxLen {
			maxLen = lineLen
		}
	}

	width := maxLen + 4
	border := strings.Repeat("─", width-2)

	if o.colorEnabled {
		o.Printf("%s┌%s┐%s\n", ColorDim, border, ColorReset)
		o.Printf("%s│%s %s%s%s%s │%s\n", ColorDim, ColorReset, ColorBold, title, strings.Repeat(" ", width-4-len(title)), ColorDim, ColorReset)
		o.Printf("%s├%s┤%s\n", ColorDim, border, ColorReset)
		for _, line := range content {
			padding := width - 4 - len(stripANSI(line))
			o.Printf("%s│%s %s%s %s│%s\n", ColorDim, ColorReset, line, strings.Repeat(" ", padding), ColorDim, ColorReset)
		}
		o.Printf("%s└%s┘%s\n", ColorDim, border, ColorReset)
	} else {
		o.Printf("+%s+\n", border)
		o.Printf("| %s%s |\n", title, strings.Repeat(" ", width-4-len(title)))
		o.Printf("+%s+\n", border)
		for _, line := range content {
			padding := width - 4 - len(stripANSI(line))
			o.Printf("| %s%s |\n", line, strings.Repeat(" ", padding))
		}
		o.Printf("+%s+\n", border)
	}
}
