package report

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru"

	"github.com/deixis/cronrun/internal/runner"
)

// LRUStore is a bounded in-memory Store. Once full, saving a new run
// evicts the least recently used one.
type LRUStore struct {
	cache *lru.Cache
}

// NewLRUStore creates a store holding at most size runs. Size must be >= 1.
func NewLRUStore(size int) *LRUStore {
	if size < 1 {
		size = 1
	}
	cache, err := lru.New(size)
	if err != nil {
		// Only returned for non-positive sizes.
		panic(fmt.Sprintf("report: %v", err))
	}
	return &LRUStore{cache: cache}
}

// Save records result under its run ID.
func (s *LRUStore) Save(result *runner.Result) error {
	if result == nil || result.RunID == "" {
		return fmt.Errorf("saving run: missing run ID")
	}
	s.cache.Add(result.RunID, result)
	return nil
}

// Load returns the run with the given ID and marks it recently used.
func (s *LRUStore) Load(runID string) (*runner.Result, error) {
	v, ok := s.cache.Get(runID)
	if !ok {
		return nil, ErrNotFound{RunID: runID}
	}
	return v.(*runner.Result), nil
}

// List returns the stored runs, most recently started first.
func (s *LRUStore) List() []*runner.Result {
	keys := s.cache.Keys()
	out := make([]*runner.Result, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.cache.Peek(k); ok {
			out = append(out, v.(*runner.Result))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Started.After(out[j].Started)
	})
	return out
}
