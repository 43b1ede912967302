package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryStore keeps snapshots in process.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: map[string]*Snapshot{}}
}

func (m *MemoryStore) Load(_ context.Context, scope string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[scope]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (m *MemoryStore) Save(_ context.Context, scope string, s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[scope] = s
	return nil
}

const snapshotKey = "mirai:scheduler:snapshot"

// RedisStore shares the snapshot between replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(scope string) string {
	if scope == "" {
		return snapshotKey
	}
	return snapshotKey + ":" + scope
}

func (r *RedisStore) Load(ctx context.Context, scope string) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, redisKey(scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, scope string, s *Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(scope), raw, r.ttl).Err()
}
