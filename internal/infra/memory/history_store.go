package memory

import (
	"context"
	"sync"
)

// HistoryStore keeps per-module recently seen question IDs in memory, newest
// first, capped at limit entries.
type HistoryStore struct {
	limit     int
	mu        sync.RWMutex
	histories map[string][]int
}

func NewHistoryStore(limit int) *HistoryStore {
	return &HistoryStore{
		limit:     limit,
		histories: make(map[string][]int),
	}
}

func (h *HistoryStore) Recent(_ context.Context, moduleKey string) ([]int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]int(nil), h.histories[moduleKey]...), nil
}

// Push prepends ids and evicts the oldest entries beyond the cap.
func (h *HistoryStore) Push(_ context.Context, moduleKey string, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	updated := append(append([]int(nil), ids...), h.histories[moduleKey]...)
	if h.limit > 0 && len(updated) > h.limit {
		updated = updated[:h.limit]
	}
	h.histories[moduleKey] = updated
	return nil
}
