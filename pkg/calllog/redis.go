package calllog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// redisKey holds the call log list. LPUSH keeps newest records at the head.
const redisKey = "voicemd:calls"

// Redis is a Store backed by a capped Redis list. It lets a deployment
// keep call history across restarts without changing the orchestrator.
type Redis struct {
	client   *redis.Client
	capacity int
}

// NewRedis creates a Redis-backed store retaining at most capacity records.
// A capacity <= 0 selects DefaultCapacity.
func NewRedis(client *redis.Client, capacity int) *Redis {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Redis{client: client, capacity: capacity}
}

// Append pushes the record and trims the list to capacity.
func (r *Redis) Append(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("calllog: marshal record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, redisKey, data)
	pipe.LTrim(ctx, redisKey, 0, int64(r.capacity)-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("calllog: append: %w", err)
	}
	return nil
}

// List returns retained records newest first.
func (r *Redis) List(ctx context.Context) ([]Record, error) {
	raw, err := r.client.LRange(ctx, redisKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("calllog: list: %w", err)
	}

	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("calllog: decode record: %w", err)
		}
		out = append(out, rec)
	}

	// LPUSH order already gives newest first for monotonic appends; the
	// stable sort enforces it when clocks produce equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Verify Redis implements Store at compile time.
var _ Store = (*Redis)(nil)
