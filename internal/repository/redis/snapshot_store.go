package redis

import (
	"context"
	"errors"
	"fmt"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore keeps the whole cluster cache under one key. A single SET
// replaces the value atomically.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

var _ cluster.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(client *redis.Client, key string) *SnapshotStore {
	return &SnapshotStore{client: client, key: key}
}

func (s *SnapshotStore) Load(ctx context.Context) (map[string]domain.CacheEntry, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]domain.CacheEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from Redis: %w", s.key, err)
	}

	entries := make(map[string]domain.CacheEntry)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cluster cache: %w", err)
	}
	for id, e := range entries {
		e.StudentID = id
		entries[id] = e
	}
	return entries, nil
}

func (s *SnapshotStore) Save(ctx context.Context, entries map[string]domain.CacheEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal cluster cache: %w", err)
	}

	// no expiry: the snapshot lives until the next recompute
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store cluster cache in Redis: %w", err)
	}
	return nil
}
