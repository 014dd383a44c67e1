// Package ui provides styled terminal output and interactive prompts.
//
// All user-facing text goes through the Render helpers so that color is
// applied consistently and degrades to plain text on dumb terminals.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	// plain disables styling when the terminal has no color support.
	plain = termenv.ColorProfile() == termenv.Ascii
)

// RenderNotice styles informational text (assumed defaults, progress notes).
func RenderNotice(s string) string {
	if plain {
		return s
	}
	return noticeStyle.Render(s)
}

// RenderFail styles fatal error text.
func RenderFail(s string) string {
	if plain {
		return s
	}
	return failStyle.Render(s)
}

// RenderPass styles success text.
func RenderPass(s string) string {
	if plain {
		return s
	}
	return passStyle.Render(s)
}

// RenderAccent styles command echoes and other highlighted fragments.
func RenderAccent(s string) string {
	if plain {
		return s
	}
	return accentStyle.Render(s)
}
