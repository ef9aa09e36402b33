package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/snippet"
)

// Popup shows the snippet of a clicked district. A session has at most one.
type Popup struct {
	Feature *districts.Feature
	Snippet snippet.Snippet
}

func newPopup(f *districts.Feature) *Popup {
	return &Popup{Feature: f, Snippet: snippet.For(f)}
}

// View renders the popup at the given outer width
func (p *Popup) View(width int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		renderSnippet(p.Snippet),
		helpStyle.Render("esc: close"),
	)
	return popupStyle.Width(paneWidth(width)).Render(body)
}
