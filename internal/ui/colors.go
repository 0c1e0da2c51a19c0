// package ui holds the lipgloss styles the CLI output uses.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the stylesheet for preview listings and query output.
type Styles struct {
	Title lipgloss.Style
	Ok    lipgloss.Style
	Err   lipgloss.Style
	Path  lipgloss.Style
	Muted lipgloss.Style
}

// DefaultStyles builds the default palette.
func DefaultStyles() *Styles {
	return &Styles{
		Title: newBold("#7D56F4").MarginBottom(1),
		Ok:    newBold("#04B575"),
		Err:   newBold("#FF0000"),
		Path:  newStyle("#FFA500"),
		Muted: newStyle("#626262").Italic(true),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}
