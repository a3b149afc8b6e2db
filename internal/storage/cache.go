package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// SnapshotCache keeps the latest per-symbol indicator snapshot in redis for
// the dashboard collaborator. The engine itself never reads it back:
// caching derived values is strictly a collaborator concern.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(symbol string) string {
	return fmt.Sprintf("indicators:latest:%s", symbol)
}

// PutLatest stores the defined indicator values of a symbol's newest bar.
func (c *SnapshotCache) PutLatest(ctx context.Context, symbol string, values []model.IndicatorValue) error {
	snap := make(map[string]float64, len(values))
	for _, v := range values {
		if v.Defined {
			snap[v.Name] = v.Value
		}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(symbol), data, c.ttl).Err()
}

// GetLatest returns the cached snapshot, or nil when the key is absent.
func (c *SnapshotCache) GetLatest(ctx context.Context, symbol string) (map[string]float64, error) {
	data, err := c.client.Get(ctx, snapshotKey(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap map[string]float64
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}
