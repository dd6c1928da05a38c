// Package adstore holds the authoritative in-memory list of ads for the active
// watch. State lives locally, consumers read consistent snapshots and watch the
// typed events emitted on every mutation.
package adstore

import (
	"sort"
	"strings"
	"sync"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/events"
)

// SortKey names a user-triggered ordering.
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortScoreDesc SortKey = "score-desc"
	SortDateDesc  SortKey = "date-desc"
)

// SortKeys lists the orderings in the order the dashboard cycles through them.
var SortKeys = []SortKey{SortDateDesc, SortPriceAsc, SortScoreDesc}

// ParseSortKey resolves user input to a SortKey.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc, "price":
		return SortPriceAsc, true
	case SortScoreDesc, "score":
		return SortScoreDesc, true
	case SortDateDesc, "date":
		return SortDateDesc, true
	}
	return "", false
}

// Store maintains the ad list and emits events on the bus after each change.
type Store struct {
	component events.ComponentID
	bus       *events.Bus

	mu       sync.RWMutex
	ads      []ad.Ad
	watch    string
	loaded   bool
	lastSeen int
	revision uint64
}

// New creates an empty store. component defaults to "adstore"; bus may be nil.
func New(component events.ComponentID, bus *events.Bus) *Store {
	if component == "" {
		component = events.ComponentID("adstore")
	}
	return &Store{component: component, bus: bus}
}

// Replace swaps the whole list for watch ("" means all watches). The last-seen
// count becomes len(ads).
func (s *Store) Replace(watch string, ads []ad.Ad) {
	next := make([]ad.Ad, 0, len(ads))
	for _, a := range ads {
		next = append(next, a.Normalize().Clone())
	}

	s.mu.Lock()
	s.ads = next
	s.watch = strings.TrimSpace(watch)
	s.loaded = true
	s.lastSeen = len(next)
	s.revision++
	msg := events.AdsReplacedMsg{
		Component: s.component,
		Watch:     s.watch,
		Count:     len(next),
		Revision:  s.revision,
	}
	s.mu.Unlock()

	s.bus.Emit(msg)
}

// PatchRemove drops the ad with the given id. It reports whether anything was
// removed.
func (s *Store) PatchRemove(id ad.ID) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.ads = append(s.ads[:idx], s.ads[idx+1:]...)
	s.revision++
	msg := events.AdRemovedMsg{Component: s.component, ID: string(id), Revision: s.revision}
	s.mu.Unlock()

	s.bus.Emit(msg)
	return true
}

// Snapshot returns a deep copy of the ads in their current order.
func (s *Store) Snapshot() []ad.Ad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ad.Ad, len(s.ads))
	for i, a := range s.ads {
		out[i] = a.Clone()
	}
	return out
}

// Sort re-orders the list in place. The sort is stable so equal keys keep the
// server order.
func (s *Store) Sort(key SortKey) {
	var less func(a, b ad.Ad) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b ad.Ad) bool { return a.PriceValue() < b.PriceValue() }
	case SortScoreDesc:
		less = func(a, b ad.Ad) bool { return a.Score() > b.Score() }
	case SortDateDesc:
		less = func(a, b ad.Ad) bool { return a.Published().After(b.Published()) }
	default:
		return
	}

	s.mu.Lock()
	sort.SliceStable(s.ads, func(i, j int) bool { return less(s.ads[i], s.ads[j]) })
	s.revision++
	msg := events.AdsSortedMsg{Component: s.component, Key: string(key), Revision: s.revision}
	s.mu.Unlock()

	s.bus.Emit(msg)
}

// Get returns a copy of the ad with id.
func (s *Store) Get(id ad.ID) (ad.Ad, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return ad.Ad{}, false
	}
	return s.ads[idx].Clone(), true
}

// Has reports whether id is in the store.
func (s *Store) Has(id ad.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// IDs returns the identifiers in current order.
func (s *Store) IDs() []ad.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ad.ID, len(s.ads))
	for i, a := range s.ads {
		out[i] = a.ID
	}
	return out
}

// Len returns the number of ads held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ads)
}

// Watch returns the scope of the last Replace.
func (s *Store) Watch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watch
}

// Loaded reports whether Replace ran at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LastSeen is the ad count observed at the last Replace. Single removals do
// not lower it.
func (s *Store) LastSeen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Revision increases on every mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) indexLocked(id ad.ID) int {
	for i := range s.ads {
		if s.ads[i].ID == id {
			return i
		}
	}
	return -1
}
