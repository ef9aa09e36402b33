package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/mapview"
	"github.com/ngmaloney/la-districts/internal/style"
)

const (
	headerHeight = 2
	footerHeight = 3
	maxSideWidth = 46
	scaleCells   = 20

	attribution = "Geocoding © OpenStreetMap contributors | Population data © US Census Bureau"
	helpText    = "/: search • 1-5/tab: layer • l: layers • arrows: pan • +/-: zoom • click: details • e: export • r: reload • c: clear • q: quit"
)

// layout is the size of the screen regions, in cells
type layout struct {
	mapW, mapH int
	sideW      int
}

func (m Model) layout() layout {
	side := maxSideWidth
	if m.width/2 < side {
		side = m.width / 2
	}
	l := layout{
		sideW: side,
		mapW:  m.width - side,
		mapH:  m.height - headerHeight - footerHeight,
	}
	if l.mapW < 1 {
		l.mapW = 1
	}
	if l.mapH < 1 {
		l.mapH = 1
	}
	return l
}

// mapCell converts screen coordinates to a map cell
func (m Model) mapCell(x, y int) (int, int, bool) {
	l := m.layout()
	col, row := x, y-headerHeight
	return col, row, col >= 0 && col < l.mapW && row >= 0 && row < l.mapH
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	l := m.layout()

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewMap(), m.viewSide(l))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewFooter())
}

func (m Model) viewHeader() string {
	title := titleStyle.Render(appTitle) + "  " + activeTitleStyle.Render(m.active.Label())
	if m.busy() {
		title += " " + m.spinner.View()
	}

	search := mutedStyle.Render("Search: ") + m.searchInput.View()
	if !m.searchInput.Focused() && m.searchInput.Value() == "" {
		search = mutedStyle.Render("Press / to search an address")
	}

	clip := lipgloss.NewStyle().MaxWidth(m.width)
	return clip.Render(title) + "\n" + clip.Render(search)
}

// shapes returns the active layer's districts in their current styles
func (m Model) shapes() []mapview.Shape {
	features := m.store.Features(m.active)
	shapes := make([]mapview.Shape, 0, len(features))
	for _, f := range features {
		st, ok := m.baseStyles[f]
		if !ok {
			st = style.Style{StrokeColor: style.StrokeColor(m.active), StrokeWeight: 1, StrokeOpacity: 1}
		}
		if f == m.hover {
			st = style.Highlight(st)
		}
		shapes = append(shapes, mapview.Shape{Geometry: f.Geometry, Style: st})
	}
	return shapes
}

func (m Model) viewMap() string {
	c := mapview.Render(m.viewport, m.shapes(), m.marker)
	return strings.Join(c.Lines(), "\n")
}

func (m Model) viewSide(l layout) string {
	var parts []string
	if m.popup != nil {
		parts = append(parts, m.popup.View(l.sideW))
	}
	if m.showLayers {
		parts = append(parts, m.layerList.View())
	} else {
		parts = append(parts, m.info.View(l.sideW))
		if m.search.Active() {
			parts = append(parts, m.search.View(l.sideW))
		}
		parts = append(parts, m.viewLegend())
	}

	return lipgloss.NewStyle().
		Width(l.sideW).
		MaxWidth(l.sideW).
		MaxHeight(l.mapH).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// viewLegend lists the layers with their stroke colors and load states
func (m Model) viewLegend() string {
	lines := []string{sectionHeaderStyle.Render("Layers")}
	for _, k := range districts.Kinds {
		cursor := "  "
		if k == m.active {
			cursor = titleStyle.Render("▶ ")
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Hex(style.StrokeColor(k)))).Render("━━")

		state, _ := m.store.State(k)
		label := fmt.Sprintf("%d %s", int(k)+1, k.Label())
		switch state {
		case districts.StateLoading:
			label = loadingStyle.Render(label + " …")
		case districts.StateFailed:
			label = errorStyle.Render(label + " !")
		default:
			label = valueStyle.Render(label)
		}
		lines = append(lines, cursor+swatch+" "+label)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewFooter() string {
	cells, label := m.viewport.ScaleBar(scaleCells)
	scale := ""
	if cells > 0 {
		scale = "├" + strings.Repeat("─", max(cells-2, 0)) + "┤ " + label + "   "
	}

	status := mutedStyle.Render(m.status)
	switch {
	case m.searching != "":
		status = m.spinner.View() + " " + loadingStyle.Render(m.status)
	case m.statusErr:
		status = errorStyle.Render(m.status)
	case m.search.Active():
		status = successStyle.Render(m.status)
	}

	clip := lipgloss.NewStyle().MaxWidth(m.width)
	return strings.Join([]string{
		clip.Render(scale + mutedStyle.Render(attribution)),
		clip.Render(status),
		clip.Render(helpStyle.Render(helpText)),
	}, "\n")
}
