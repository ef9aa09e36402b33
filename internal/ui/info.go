package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/snippet"
)

const (
	appTitle        = "Greater Los Angeles Political Jurisdictions"
	hoverPrompt     = "Hover over a district to learn more"
	loadingText     = "Loading district data..."
	unavailableText = "District data unavailable"
)

// InfoPanel describes the hovered district of the active layer
type InfoPanel struct {
	header  string
	feature *districts.Feature
	state   districts.State
	err     error
}

// NewInfoPanel creates a panel headed by the given layer label
func NewInfoPanel(header string) InfoPanel {
	return InfoPanel{header: header, state: districts.StateLoading}
}

// Header returns the active layer label
func (p InfoPanel) Header() string {
	return p.header
}

// SetHeader changes the panel header
func (p *InfoPanel) SetHeader(header string) {
	p.header = header
}

// Update shows f, or the hover prompt when f is nil
func (p *InfoPanel) Update(f *districts.Feature) {
	p.feature = f
}

// SetLayerState records the load state of the active layer
func (p *InfoPanel) SetLayerState(state districts.State, err error) {
	p.state = state
	p.err = err
}

// Body returns the panel text without styling
func (p InfoPanel) Body() []string {
	if p.feature != nil {
		return snippetLines(snippet.For(p.feature))
	}
	switch p.state {
	case districts.StateLoading:
		return []string{loadingText}
	case districts.StateFailed:
		return []string{unavailableMessage(p.err)}
	}
	return []string{hoverPrompt}
}

// View renders the panel at the given outer width
func (p InfoPanel) View(width int) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(p.header))
	b.WriteString("\n")

	switch {
	case p.feature != nil:
		b.WriteString(renderSnippet(snippet.For(p.feature)))
	case p.state == districts.StateLoading:
		b.WriteString(loadingStyle.Render(loadingText))
	case p.state == districts.StateFailed:
		b.WriteString(errorStyle.Render(unavailableMessage(p.err)))
	default:
		b.WriteString(mutedStyle.Render(hoverPrompt))
	}
	return paneStyle.Width(paneWidth(width)).Render(b.String())
}

func unavailableMessage(err error) string {
	if err == nil {
		return unavailableText
	}
	return unavailableText + ": " + err.Error()
}

// snippetLines is the plain text of a snippet, with the contact line when
// one is known
func snippetLines(s snippet.Snippet) []string {
	lines := s.Lines()
	if s.Contact != "" {
		lines = append(lines, "Contact: "+s.Contact)
	}
	return lines
}

func renderSnippet(s snippet.Snippet) string {
	lines := []string{
		valueStyle.Bold(true).Render(s.Title),
		labelStyle.Render(s.Subtitle),
	}
	if s.Detail != "" {
		lines = append(lines, valueStyle.Render(s.Detail))
	}
	lines = append(lines, linkStyle.Render(s.Link))
	if s.Contact != "" {
		lines = append(lines, mutedStyle.Render("Contact: ")+linkStyle.Render(s.Contact))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// paneWidth converts an outer width to the content width lipgloss expects
// for a bordered pane
func paneWidth(outer int) int {
	if outer < 4 {
		return 1
	}
	return outer - 2
}
