package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/la-districts/internal/districts"
)

// layerItem wraps a layer and its load state for use in a list
type layerItem struct {
	kind     districts.Kind
	state    districts.State
	err      error
	features int
	loadedAt time.Time
}

// FilterValue implements list.Item
func (l layerItem) FilterValue() string {
	return l.kind.Label()
}

// Title implements list.DefaultItem
func (l layerItem) Title() string {
	return fmt.Sprintf("%d  %s", int(l.kind)+1, l.kind.Label())
}

// Description implements list.DefaultItem
func (l layerItem) Description() string {
	switch l.state {
	case districts.StateReady:
		if l.loadedAt.IsZero() {
			return fmt.Sprintf("%d districts", l.features)
		}
		return fmt.Sprintf("%d districts, loaded %s", l.features, l.loadedAt.Format(time.Kitchen))
	case districts.StateFailed:
		return unavailableMessage(l.err)
	}
	return "loading..."
}

func layerItems(store *districts.Store) []list.Item {
	items := make([]list.Item, len(districts.Kinds))
	for i, k := range districts.Kinds {
		state, err := store.State(k)
		loadedAt, _ := store.LoadedAt(k)
		items[i] = layerItem{kind: k, state: state, err: err, features: len(store.Features(k)), loadedAt: loadedAt}
	}
	return items
}

// createLayerList creates the layer switcher
func createLayerList(store *districts.Store, width, height int) list.Model {
	l := list.New(layerItems(store), list.NewDefaultDelegate(), width, height)
	l.Title = "Select a Layer"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}
