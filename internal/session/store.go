package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/educloud-dashboard/internal/cache"
	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Record is what a store keeps per token.
type Record struct {
	UserID    string          `json:"user_id"`
	TenantID  string          `json:"tenant_id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type Store interface {
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Load(ctx context.Context, key string) (*Record, error)
	Delete(ctx context.Context, key string) error
}

// RedisStore keeps records under the session: prefix with a TTL.
type RedisStore struct {
	helper *cache.CacheHelper
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{helper: cache.NewCacheHelper(client, cache.SessionCacheConfig.Prefix)}
}

func (s *RedisStore) Save(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	if err := s.helper.Set(ctx, key, rec, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (*Record, error) {
	var rec Record
	err := s.helper.Get(ctx, key, &rec)
	switch {
	case err == nil:
		return &rec, nil
	case errors.Is(err, cache.ErrCacheNotFound), errors.Is(err, cache.ErrCacheNotAvailable):
		return nil, ErrSessionNotFound
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.helper.Delete(ctx, key)
}

// MemoryStore is a process-local store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, key string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryEntry{rec: rec, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.records[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.records, key)
		return nil, ErrSessionNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
