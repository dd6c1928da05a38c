// Package selection tracks the ads picked for bulk operations.
package selection

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
)

// Set holds copies of the selected ads keyed by id, in selection order. The
// copies let a batch operation run even after the source list changed.
type Set struct {
	mu    sync.RWMutex
	order []ad.ID
	items map[ad.ID]ad.Ad
}

// New returns an empty set.
func New() *Set {
	return &Set{items: map[ad.ID]ad.Ad{}}
}

// Toggle adds a when its id is absent and removes it otherwise. It returns
// whether the ad is selected afterwards.
func (s *Set) Toggle(a ad.Ad) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[a.ID]; ok {
		s.removeLocked(a.ID)
		return false
	}
	s.items[a.ID] = a.Clone()
	s.order = append(s.order, a.ID)
	return true
}

// Remove drops id if selected.
func (s *Set) Remove(id ad.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Set) Contains(id ad.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// SelectAll adds every ad not yet selected and returns how many were added.
func (s *Set) SelectAll(ads []ad.Ad) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, a := range ads {
		if _, ok := s.items[a.ID]; ok {
			continue
		}
		s.items[a.ID] = a.Clone()
		s.order = append(s.order, a.ID)
		added++
	}
	return added
}

func (s *Set) Clear() {
	s.mu.Lock()
	s.items = map[ad.ID]ad.Ad{}
	s.order = nil
	s.mu.Unlock()
}

// Items returns copies of the selected ads in selection order.
func (s *Set) Items() []ad.Ad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ad.Ad, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// IDs returns the selected ids in selection order.
func (s *Set) IDs() []ad.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ad.ID(nil), s.order...)
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Retain drops every selected id for which keep returns false and returns the
// number dropped. Used to reconcile the selection after a reload.
func (s *Set) Retain(keep func(ad.ID) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	order := s.order[:0]
	for _, id := range s.order {
		if keep(id) {
			order = append(order, id)
			continue
		}
		delete(s.items, id)
		dropped++
	}
	s.order = order
	return dropped
}

func (s *Set) removeLocked(id ad.ID) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// BatchResult summarizes a best-effort bulk operation.
type BatchResult struct {
	Succeeded []ad.ID
	Failed    int
	// Err is the last failure seen, for logging.
	Err error
}

// RunBatch calls fn for every id in order. A failure never aborts the batch.
// When limiter is non-nil each call waits for a token first; a cancelled
// context counts the remaining ids as failed.
func RunBatch(ctx context.Context, ids []ad.ID, limiter *rate.Limiter, fn func(context.Context, ad.ID) error) BatchResult {
	var res BatchResult
	for i, id := range ids {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				res.Failed += len(ids) - i
				res.Err = err
				return res
			}
		}
		if err := fn(ctx, id); err != nil {
			res.Failed++
			res.Err = err
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	return res
}
