// Package style holds the colours, icons and text styles shared by the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Amber  = lipgloss.Color("#F59E0B")
	Copper = lipgloss.Color("#B45309")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#EAB308")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Bolt    = "⚡"
	Dot     = "●"
	Circle  = "○"
)

// Text styles for tabular CLI output.
var (
	Header = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	Muted  = lipgloss.NewStyle().Foreground(Slate)
	OK     = lipgloss.NewStyle().Foreground(Green)
	Failed = lipgloss.NewStyle().Foreground(Red)
	Notice = lipgloss.NewStyle().Foreground(Yellow)
)

// Mark returns a check or a cross for ok.
func Mark(ok bool) string {
	if ok {
		return OK.Render(Check)
	}
	return Failed.Render(Cross)
}
