package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the marker only while it still carries the caller's
// token, so a holder whose TTL lapsed cannot clear a successor's marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PendingMarker flags a key as busy for a bounded time. With Redis the flag
// is shared across replicas (SET NX); without it the flag is process-local.
type PendingMarker struct {
	helper *CacheHelper

	mu    sync.Mutex
	local map[string]localHold
	now   func() time.Time
}

type localHold struct {
	token   string
	expires time.Time
}

func NewPendingMarker(helper *CacheHelper) *PendingMarker {
	return &PendingMarker{
		helper: helper,
		local:  make(map[string]localHold),
		now:    time.Now,
	}
}

// Acquire sets the marker unless it is already set. ok is false when another
// holder has it. The returned token must be passed to Release.
func (p *PendingMarker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	if p.helper.Available() {
		ok, err := p.helper.client.SetNX(ctx, p.helper.GetCacheKey(key), token, ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("acquire marker: %w", err)
		}
		if !ok {
			return "", false, nil
		}
		return token, true, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if h, held := p.local[key]; held && p.now().Before(h.expires) {
		return "", false, nil
	}
	p.local[key] = localHold{token: token, expires: p.now().Add(ttl)}
	return token, true, nil
}

// Release clears the marker if token still owns it. A marker that expired
// and was taken by someone else is left alone.
func (p *PendingMarker) Release(ctx context.Context, key, token string) error {
	if p.helper.Available() {
		if err := releaseScript.Run(ctx, p.helper.client, []string{p.helper.GetCacheKey(key)}, token).Err(); err != nil {
			return fmt.Errorf("release marker: %w", err)
		}
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if h, held := p.local[key]; held && h.token == token {
		delete(p.local, key)
	}
	return nil
}

func (p *PendingMarker) Held(ctx context.Context, key string) (bool, error) {
	if p.helper.Available() {
		return p.helper.Exists(ctx, key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	h, held := p.local[key]
	return held && p.now().Before(h.expires), nil
}
