package grid

import (
	"container/list"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultMaxEntries bounds the cache. The key space is small and
// UI-driven, so this is a safety margin rather than a sizing decision.
const DefaultMaxEntries = 256

// Evaluator memoizes grid computations by their full Request value, so a
// UI that recomputes on every widget interaction only pays for parameter
// combinations it has not seen.
//
// Concurrent lookups of the same key share a single computation; lookups
// of distinct keys never block each other (the map lock is held only for
// map access, the compute runs under a per-entry sync.Once).
type Evaluator struct {
	mu         sync.Mutex
	entries    map[Request]*cacheEntry
	order      *list.List // LRU, front = most recent
	maxEntries int
	logger     zerolog.Logger
}

type cacheEntry struct {
	once sync.Once
	elem *list.Element // key position in order
	res  *Result
	err  error
}

// NewEvaluator creates an Evaluator with the given cache bound. A bound
// of zero or less falls back to DefaultMaxEntries.
func NewEvaluator(maxEntries int, logger zerolog.Logger) *Evaluator {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Evaluator{
		entries:    make(map[Request]*cacheEntry),
		order:      list.New(),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Grid returns the computed matrices for req, computing them at most once
// per distinct request. Validation errors are returned without touching
// the cache.
func (e *Evaluator) Grid(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	entry, hit := e.entries[req]
	if hit {
		e.order.MoveToFront(entry.elem)
	} else {
		entry = &cacheEntry{}
		entry.elem = e.order.PushFront(req)
		e.entries[req] = entry
		e.evictLocked()
	}
	e.mu.Unlock()

	entry.once.Do(func() {
		entry.res, entry.err = Compute(req)
		e.logger.Debug().
			Int("resolution", req.Resolution).
			Str("mode", string(req.Mode)).
			Msg("grid computed")
	})
	if hit {
		e.logger.Debug().Int("resolution", req.Resolution).Msg("grid cache hit")
	}
	return entry.res, entry.err
}

// Len reports the number of cached entries.
func (e *Evaluator) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

// Invalidate drops the entry for req, if present. Other entries are
// untouched.
func (e *Evaluator) Invalidate(req Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.entries[req]; ok {
		e.order.Remove(entry.elem)
		delete(e.entries, req)
	}
}

// evictLocked trims the oldest entries beyond the bound. Callers holding
// a *cacheEntry pointer still complete their computation; eviction only
// removes the entry from future lookups.
func (e *Evaluator) evictLocked() {
	for len(e.entries) > e.maxEntries {
		oldest := e.order.Back()
		if oldest == nil {
			return
		}
		key := oldest.Value.(Request)
		e.order.Remove(oldest)
		delete(e.entries, key)
		e.logger.Debug().Msg("grid cache entry evicted")
	}
}
