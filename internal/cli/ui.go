package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")  // Teal - headings
	colorGreen = lipgloss.Color("35")  // Green - success
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - labels
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	styleLabel = lipgloss.NewStyle().Foreground(colorGray).Width(20)
)

const iconSuccess = "✓"

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, StyleTitle.Render(title))
}

// printStat writes an aligned "label value" line.
func printStat(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(label), StyleNumber.Render(fmt.Sprint(value)))
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", StyleSuccess.Render(iconSuccess), msg)
}
