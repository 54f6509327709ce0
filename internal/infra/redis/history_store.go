package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps recently seen question IDs per module in a Redis list,
// newest first. LTRIM enforces the cap so the oldest entries fall off.
// Histories deliberately carry no TTL; they outlive individual attempts.
type HistoryStore struct {
	client *redis.Client
	limit  int64
}

func NewHistoryStore(client *redis.Client, limit int) *HistoryStore {
	return &HistoryStore{client: client, limit: int64(limit)}
}

func (h *HistoryStore) Recent(ctx context.Context, moduleKey string) ([]int, error) {
	raw, err := h.client.LRange(ctx, h.key(moduleKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	ids := make([]int, 0, len(raw))
	for _, entry := range raw {
		if id, err := strconv.Atoi(entry); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (h *HistoryStore) Push(ctx context.Context, moduleKey string, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	key := h.key(moduleKey)
	// LPUSH reverses its arguments; push back-to-front so ids[0] lands at the head.
	values := make([]interface{}, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		values = append(values, strconv.Itoa(ids[i]))
	}
	pipe := h.client.Pipeline()
	pipe.LPush(ctx, key, values...)
	if h.limit > 0 {
		pipe.LTrim(ctx, key, 0, h.limit-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	return nil
}

func (h *HistoryStore) key(moduleKey string) string {
	return "quiz:history:" + moduleKey
}
