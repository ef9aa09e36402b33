package districts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// State is the load state of one layer
type State int

const (
	StateLoading State = iota // Fetch in flight, no features yet
	StateReady                // Features available
	StateFailed               // Fetch failed or timed out
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "unavailable"
	}
	return "unknown"
}

// CandidateIndex narrows a layer to the features whose bounds contain a
// point. Candidates returns feature sequence numbers in ascending order.
type CandidateIndex interface {
	Insert(ctx context.Context, kind Kind, features []*Feature) error
	Remove(ctx context.Context, kind Kind) error
	Candidates(ctx context.Context, kind Kind, pt orb.Point) ([]int, error)
}

type layerData struct {
	state    State
	features []*Feature
	err      error
	loadedAt time.Time
}

// Store holds the five layers of one map session. All layers start in
// StateLoading.
type Store struct {
	mu     sync.RWMutex
	layers map[Kind]*layerData
	index  CandidateIndex
}

// NewStore creates a store. index may be nil, in which case candidate
// lookups scan every feature of the layer.
func NewStore(index CandidateIndex) *Store {
	s := &Store{
		layers: make(map[Kind]*layerData, len(Kinds)),
		index:  index,
	}
	for _, k := range Kinds {
		s.layers[k] = &layerData{state: StateLoading}
	}
	return s
}

// State returns the load state of a layer and, when failed, its error
func (s *Store) State(kind Kind) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layers[kind]
	if !ok {
		return StateFailed, fmt.Errorf("unknown layer kind %d", int(kind))
	}
	return l.state, l.err
}

// Features returns the features of a ready layer, nil otherwise
func (s *Store) Features(kind Kind) []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layers[kind]
	if !ok || l.state != StateReady {
		return nil
	}
	return l.features
}

// LoadedAt returns when a ready layer was published
func (s *Store) LoadedAt(kind Kind) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layers[kind]
	if !ok || l.state != StateReady {
		return time.Time{}, false
	}
	return l.loadedAt, true
}

// SetLoading puts a layer back into the loading state, dropping its features
func (s *Store) SetLoading(ctx context.Context, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[kind]
	if !ok {
		return
	}
	if s.index != nil && l.state == StateReady {
		if err := s.index.Remove(ctx, kind); err != nil {
			slog.Warn("removing layer from index", "layer", kind.String(), "err", err)
		}
	}
	*l = layerData{state: StateLoading}
}

// SetReady publishes the features of a layer. Feature sequence numbers must
// match their position in the slice.
func (s *Store) SetReady(ctx context.Context, kind Kind, features []*Feature) error {
	for i, f := range features {
		if f.Seq != i || f.Kind != kind {
			return fmt.Errorf("feature %d of %s is out of place (seq %d, kind %s)", i, kind, f.Seq, f.Kind)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[kind]
	if !ok {
		return fmt.Errorf("unknown layer kind %d", int(kind))
	}
	if s.index != nil {
		if err := s.index.Insert(ctx, kind, features); err != nil {
			*l = layerData{state: StateFailed, err: fmt.Errorf("indexing %s: %w", kind, err)}
			return l.err
		}
	}
	*l = layerData{state: StateReady, features: features, loadedAt: time.Now()}
	return nil
}

// SetFailed marks a layer unavailable
func (s *Store) SetFailed(kind Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.layers[kind]; ok {
		*l = layerData{state: StateFailed, err: err}
	}
}

// Candidates returns the features of a layer that may contain pt, in source
// order, along with the layer state. Only ready layers yield candidates.
func (s *Store) Candidates(ctx context.Context, kind Kind, pt orb.Point) ([]*Feature, State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layers[kind]
	if !ok {
		return nil, StateFailed, fmt.Errorf("unknown layer kind %d", int(kind))
	}
	if l.state != StateReady {
		return nil, l.state, l.err
	}

	if s.index == nil {
		var out []*Feature
		for _, f := range l.features {
			if f.Bound.Contains(pt) {
				out = append(out, f)
			}
		}
		return out, StateReady, nil
	}

	seqs, err := s.index.Candidates(ctx, kind, pt)
	if err != nil {
		return nil, StateReady, fmt.Errorf("querying %s candidates: %w", kind, err)
	}
	out := make([]*Feature, 0, len(seqs))
	for _, seq := range seqs {
		if seq >= 0 && seq < len(l.features) {
			out = append(out, l.features[seq])
		}
	}
	return out, StateReady, nil
}
