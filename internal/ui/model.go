package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/geocoding"
	"github.com/ngmaloney/la-districts/internal/mapview"
	"github.com/ngmaloney/la-districts/internal/resolver"
	"github.com/ngmaloney/la-districts/internal/style"
)

const (
	defaultLoadTimeout   = 30 * time.Second
	defaultSearchTimeout = 10 * time.Second
)

// Options wires a session to its data and services
type Options struct {
	Store         *districts.Store
	Load          LoadFunc
	Geocoder      geocoding.Geocoder
	Styles        *style.Resolver
	LoadTimeout   time.Duration
	SearchTimeout time.Duration
	Layer         districts.Kind // Initially active layer
	Address       string         // Searched once the session starts
	ExportDir     string         // Where the export key writes HTML pages
}

// Model represents the application's state
type Model struct {
	width  int
	height int

	store         *districts.Store
	resolver      *resolver.Resolver
	load          LoadFunc
	geocoder      geocoding.Geocoder
	styles        *style.Resolver
	loadTimeout   time.Duration
	searchTimeout time.Duration
	exportDir     string

	// Latest load generation per layer; older results are dropped
	loadGen [districts.NumKinds]int

	// Active layer and what is drawn for it
	active     districts.Kind
	baseStyles map[*districts.Feature]style.Style
	hover      *districts.Feature
	info       InfoPanel
	popup      *Popup

	// Map
	viewport mapview.Viewport
	marker   *orb.Point

	// Search
	searchInput  textinput.Model
	searching    string // Query awaiting a geocoder answer
	search       SearchPanel
	startAddress string

	// Layer switcher
	layerList  list.Model
	showLayers bool

	spinner   spinner.Model
	status    string
	statusErr bool
}

// NewModel creates a session. Every layer starts out loading.
func NewModel(opts Options) Model {
	if opts.Store == nil {
		opts.Store = districts.NewStore(nil)
	}
	if opts.Styles == nil {
		opts.Styles = style.NewResolver(nil)
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = defaultSearchTimeout
	}
	if !opts.Layer.Valid() {
		opts.Layer = districts.NeighborhoodCouncil
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	ti := textinput.New()
	ti.Placeholder = "Search an address (e.g. 200 N Spring St, Los Angeles)..."
	ti.CharLimit = 200
	ti.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		store:         opts.Store,
		resolver:      resolver.New(opts.Store),
		load:          opts.Load,
		geocoder:      opts.Geocoder,
		styles:        opts.Styles,
		loadTimeout:   opts.LoadTimeout,
		searchTimeout: opts.SearchTimeout,
		exportDir:     opts.ExportDir,
		active:        opts.Layer,
		info:          NewInfoPanel(opts.Layer.Label()),
		viewport:      mapview.NewViewport(80, 20),
		searchInput:   ti,
		startAddress:  strings.TrimSpace(opts.Address),
		layerList:     createLayerList(opts.Store, maxSideWidth, 20),
		spinner:       s,
	}
	m.layerList.Select(int(m.active))
	m.restyle()
	m.refreshInfo()
	return m
}

// Init starts every layer load, and the startup search if one was given
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.load != nil {
		for _, k := range districts.Kinds {
			cmds = append(cmds, loadLayer(m.load, k, m.loadGen[k], m.loadTimeout))
		}
	}
	if m.startAddress != "" && m.geocoder != nil {
		cmds = append(cmds, geocodeAddress(m.geocoder, m.startAddress, m.searchTimeout))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		l := m.layout()
		m.viewport = m.viewport.Resize(l.mapW, l.mapH)
		m.layerList.SetSize(l.sideW, l.mapH)
		return m, nil

	case layerLoadedMsg:
		cmd := m.applyLayer(msg)
		return m, cmd

	case geocodeMsg:
		m.applyGeocode(msg)
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			slog.Error("export failed", "err", msg.err)
			m.setStatus("Export failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("Saved "+msg.path, false)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searchInput.Focused() {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Active returns the active layer
func (m Model) Active() districts.Kind {
	return m.active
}

// SetActive switches the active layer. Unknown kinds are ignored and
// report false; selecting the active layer again changes nothing.
func (m *Model) SetActive(kind districts.Kind) bool {
	if !kind.Valid() {
		slog.Warn("ignoring unknown layer", "kind", int(kind))
		return false
	}
	if kind == m.active {
		return true
	}

	m.active = kind
	m.popup = nil
	m.hover = nil
	m.info.SetHeader(kind.Label())
	m.restyle()
	m.refreshInfo()
	m.layerList.Select(int(kind))
	slog.Debug("active layer changed", "layer", kind.String())
	return true
}

// SetActiveLabel switches to the layer with the given label or short name
func (m *Model) SetActiveLabel(label string) bool {
	kind, ok := districts.ParseKind(label)
	if !ok {
		slog.Warn("ignoring unknown layer", "label", label)
		return false
	}
	return m.SetActive(kind)
}

// restyle draws new base styles for every feature of the active layer
func (m *Model) restyle() {
	features := m.store.Features(m.active)
	m.baseStyles = make(map[*districts.Feature]style.Style, len(features))
	for _, f := range features {
		m.baseStyles[f] = m.styles.For(m.active)
	}
}

func (m *Model) refreshInfo() {
	state, err := m.store.State(m.active)
	m.info.SetLayerState(state, err)
	m.info.Update(m.hover)
}

func (m *Model) setHover(f *districts.Feature) {
	m.hover = f
	m.info.Update(f)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// busy reports whether a load or search is in flight
func (m Model) busy() bool {
	if m.searching != "" {
		return true
	}
	for _, k := range districts.Kinds {
		if state, _ := m.store.State(k); state == districts.StateLoading {
			return true
		}
	}
	return false
}

func (m *Model) applyLayer(msg layerLoadedMsg) tea.Cmd {
	if !msg.kind.Valid() || msg.gen != m.loadGen[msg.kind] {
		slog.Debug("dropping stale layer load", "layer", msg.kind.String(), "gen", msg.gen)
		return nil
	}
	ctx := context.Background()
	if msg.err != nil {
		m.store.SetFailed(msg.kind, msg.err)
		m.setStatus(unavailableMessage(fmt.Errorf("%s: %w", msg.kind.Label(), msg.err)), true)
	} else if err := m.store.SetReady(ctx, msg.kind, msg.features); err != nil {
		slog.Error("publishing layer", "layer", msg.kind.String(), "err", err)
		m.store.SetFailed(msg.kind, err)
		m.setStatus(unavailableMessage(fmt.Errorf("%s: %w", msg.kind.Label(), err)), true)
	}

	if msg.kind == m.active {
		m.hover = nil
		m.restyle()
	}
	if m.search.Active() {
		m.search.Refresh(m.resolver.Resolve(ctx, m.search.Point))
	}
	m.refreshInfo()
	return m.layerList.SetItems(layerItems(m.store))
}

func (m *Model) applyGeocode(msg geocodeMsg) {
	m.searching = ""
	switch {
	case errors.Is(msg.err, geocoding.ErrNoResults):
		slog.Info("no geocoding results", "query", msg.query)
		m.setStatus("No results for "+msg.query, false)
		return
	case msg.err != nil:
		slog.Warn("geocoding failed", "query", msg.query, "err", msg.err)
		m.setStatus("Search failed: "+msg.err.Error(), true)
		return
	}

	pt := msg.result.Point
	m.viewport = m.viewport.SetView(pt, mapview.SearchZoom)
	m.marker = &pt

	res := m.resolver.Resolve(context.Background(), pt)
	m.search.Set(msg.query, msg.result, res)
	slog.Info("search resolved", "query", msg.query, "lon", pt.Lon(), "lat", pt.Lat(), "found", res.Found())
	m.setStatus(fmt.Sprintf("%s: districts found in %d of %d layers", msg.result.DisplayName, res.Found(), len(res.Matches)), false)
}

// reload puts the active layer back into loading and fetches it again
func (m *Model) reload() tea.Cmd {
	if m.load == nil {
		return nil
	}
	kind := m.active
	m.loadGen[kind]++
	m.store.SetLoading(context.Background(), kind)
	m.hover = nil
	m.popup = nil
	m.restyle()
	if m.search.Active() {
		m.search.Refresh(m.resolver.Resolve(context.Background(), m.search.Point))
	}
	m.refreshInfo()
	m.setStatus("Reloading "+kind.Label()+"...", false)

	return tea.Batch(
		m.layerList.SetItems(layerItems(m.store)),
		loadLayer(m.load, kind, m.loadGen[kind], m.loadTimeout),
	)
}

// featureAt returns the active layer's district under a map cell
func (m Model) featureAt(col, row int) *districts.Feature {
	match := m.resolver.Locate(context.Background(), m.viewport.CellToPoint(col, row), m.active)
	if match.Status != resolver.StatusFound {
		return nil
	}
	return match.Feature
}

// handleMouse handles hover, click and wheel zoom over the map
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	col, row, ok := m.mapCell(msg.X, msg.Y)
	if !ok {
		if msg.Action == tea.MouseActionMotion {
			m.setHover(nil)
		}
		return m
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.viewport = m.viewport.ZoomAt(col, row, 1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.viewport = m.viewport.ZoomAt(col, row, -1)
	case msg.Action == tea.MouseActionMotion:
		m.setHover(m.featureAt(col, row))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		f := m.featureAt(col, row)
		if f == nil {
			m.popup = nil
			return m
		}
		m.popup = newPopup(f)
		m.viewport = m.viewport.FitBound(f.Bound, 2)
		slog.Debug("district opened", "layer", f.Kind.String(), "title", f.Title())
	}
	return m
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searchInput.Focused() {
		return m.handleSearchInput(msg)
	}
	if m.showLayers {
		return m.handleLayerList(msg)
	}

	panCols, panRows := m.viewport.Width/8+1, m.viewport.Height/6+1
	n := districts.Kind(len(districts.Kinds))

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "/":
		return m, m.searchInput.Focus()
	case "1", "2", "3", "4", "5":
		m.SetActive(districts.Kind(key[0] - '1'))
	case "tab":
		m.SetActive((m.active + 1) % n)
	case "shift+tab":
		m.SetActive((m.active + n - 1) % n)
	case "l":
		m.showLayers = true
		m.layerList.Select(int(m.active))
	case "up", "k":
		m.viewport = m.viewport.Pan(0, -panRows)
	case "down", "j":
		m.viewport = m.viewport.Pan(0, panRows)
	case "left", "h":
		m.viewport = m.viewport.Pan(-panCols, 0)
	case "right":
		m.viewport = m.viewport.Pan(panCols, 0)
	case "+", "=":
		m.viewport = m.viewport.ZoomBy(1)
	case "-", "_":
		m.viewport = m.viewport.ZoomBy(-1)
	case "0":
		m.viewport = m.viewport.SetView(mapview.DefaultCenter, mapview.DefaultZoom)
	case "c":
		m.search.Clear()
		m.marker = nil
		m.setStatus("", false)
	case "r":
		return m, m.reload()
	case "e":
		doc, ok := m.exportDocument()
		if !ok {
			m.setStatus("Nothing to export: search an address or click a district", false)
			return m, nil
		}
		return m, exportHTML(m.exportDir, doc)
	case "esc":
		m.popup = nil
	}
	return m, nil
}

// handleSearchInput handles keyboard input while the search box is focused
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if len([]rune(query)) < minQueryLength {
			m.setStatus(fmt.Sprintf("Enter at least %d characters to search", minQueryLength), false)
			return m, nil
		}
		if m.geocoder == nil {
			m.setStatus("Search unavailable: no geocoder configured", true)
			return m, nil
		}
		m.searchInput.Blur()
		m.searching = query
		m.setStatus("Searching for "+query+"...", false)
		slog.Info("geocoding", "query", query)
		return m, geocodeAddress(m.geocoder, query, m.searchTimeout)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleLayerList handles keyboard input while the layer switcher is open
func (m Model) handleLayerList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "l":
		m.showLayers = false
		return m, nil
	case "enter":
		if item, ok := m.layerList.SelectedItem().(layerItem); ok {
			m.SetActive(item.kind)
		}
		m.showLayers = false
		return m, nil
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.layerList, cmd = m.layerList.Update(msg)
	return m, cmd
}
