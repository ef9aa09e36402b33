package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/geocoding"
	"github.com/ngmaloney/la-districts/internal/resolver"
	"github.com/ngmaloney/la-districts/internal/snippet"
)

// minQueryLength is the shortest query sent to the geocoder
const minQueryLength = 4

const noDistrictText = "No district at this location"

// searchSection is the answer of one layer for the searched location
type searchSection struct {
	Kind    districts.Kind
	Status  resolver.Status
	Lines   []string
	Snippet *snippet.Snippet // Found sections only
}

// SearchPanel shows the representatives of every layer for the last
// searched location
type SearchPanel struct {
	Query    string
	Place    string
	Point    orb.Point
	sections []searchSection
}

// Active reports whether a search result is shown
func (p SearchPanel) Active() bool {
	return len(p.sections) > 0
}

// Set fills one section per layer from a resolution
func (p *SearchPanel) Set(query string, place geocoding.Result, res resolver.Result) {
	p.Query = query
	p.Place = place.DisplayName
	p.Point = place.Point
	p.Refresh(res)
}

// Refresh replaces the sections, keeping the searched location
func (p *SearchPanel) Refresh(res resolver.Result) {
	p.sections = make([]searchSection, 0, len(districts.Kinds))
	for _, k := range districts.Kinds {
		m := res.Get(k)
		sec := searchSection{Kind: k, Status: m.Status}
		if m.Status == resolver.StatusFound {
			sn := snippet.For(m.Feature)
			sec.Snippet = &sn
		}
		sec.Lines = matchLines(m, sec.Snippet)
		p.sections = append(p.sections, sec)
	}
}

// Clear drops the search result
func (p *SearchPanel) Clear() {
	*p = SearchPanel{}
}

// Section returns the section of kind
func (p SearchPanel) Section(kind districts.Kind) (searchSection, bool) {
	for _, s := range p.sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return searchSection{}, false
}

func matchLines(m resolver.Match, sn *snippet.Snippet) []string {
	switch m.Status {
	case resolver.StatusFound:
		return snippetLines(*sn)
	case resolver.StatusLoading:
		return []string{loadingText}
	case resolver.StatusUnavailable:
		return []string{unavailableMessage(m.Err)}
	}
	return []string{noDistrictText}
}

// View renders the sections at the given outer width
func (p SearchPanel) View(width int) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Representatives near"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(p.Place))

	for _, s := range p.sections {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render(s.Kind.Label()))
		b.WriteString("\n")
		b.WriteString(renderSection(s))
	}
	return paneStyle.Width(paneWidth(width)).Render(b.String())
}

func renderSection(s searchSection) string {
	st := valueStyle
	switch s.Status {
	case resolver.StatusNotFound:
		st = mutedStyle
	case resolver.StatusLoading:
		st = loadingStyle
	case resolver.StatusUnavailable:
		st = errorStyle
	}
	lines := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = st.Render(l)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
