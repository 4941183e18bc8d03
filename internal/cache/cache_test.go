package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

type tenantStats struct {
	Tenants int     `json:"tenants"`
	Revenue float64 `json:"revenue"`
}

func TestCacheOrExecute(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	helper := NewCacheHelper(client, StatsCacheConfig.Prefix)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return tenantStats{Tenants: 3, Revenue: 12000}, nil
	}

	var got tenantStats
	if err := helper.CacheOrExecute(ctx, "tenants:overview", &got, time.Minute, fetch); err != nil {
		t.Fatal(err)
	}
	if got.Tenants != 3 || calls != 1 {
		t.Fatalf("first call: got=%+v calls=%d", got, calls)
	}
	if !mr.Exists("stats:tenants:overview") {
		t.Fatal("value not cached under prefixed key")
	}

	got = tenantStats{}
	if err := helper.CacheOrExecute(ctx, "tenants:overview", &got, time.Minute, fetch); err != nil {
		t.Fatal(err)
	}
	if got.Revenue != 12000 || calls != 1 {
		t.Fatalf("second call: got=%+v calls=%d", got, calls)
	}

	mr.FastForward(2 * time.Minute)
	if err := helper.CacheOrExecute(ctx, "tenants:overview", &got, time.Minute, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("expired entry not refetched, calls=%d", calls)
	}
}

func TestCacheOrExecuteWithoutRedis(t *testing.T) {
	helper := NewCacheHelper(nil, "stats:")
	calls := 0
	var got tenantStats
	for i := 0; i < 2; i++ {
		err := helper.CacheOrExecute(context.Background(), "k", &got, time.Minute, func() (interface{}, error) {
			calls++
			return tenantStats{Tenants: 1}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 || got.Tenants != 1 {
		t.Fatalf("calls=%d got=%+v", calls, got)
	}
	if err := helper.Get(context.Background(), "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("Get err = %v", err)
	}
}

func TestInvalidateTenantCache(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	cm := NewCacheManager(client)

	_ = cm.Tenant.Set(ctx, "id:t1", map[string]string{"id": "t1"}, time.Minute)
	_ = cm.Stats.Set(ctx, "tenants:overview", tenantStats{}, time.Minute)
	_ = cm.Stats.Set(ctx, "tenants:recent", tenantStats{}, time.Minute)
	_ = cm.Stats.Set(ctx, "other", tenantStats{}, time.Minute)

	InvalidateTenantCache(ctx, cm, "t1")

	for _, key := range []string{"tenant:id:t1", "stats:tenants:overview", "stats:tenants:recent"} {
		if mr.Exists(key) {
			t.Errorf("%s still cached", key)
		}
	}
	if !mr.Exists("stats:other") {
		t.Error("unrelated key was dropped")
	}
}

func TestPendingMarkerRedis(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	marker := NewPendingMarker(NewCacheHelper(client, LockCacheConfig.Prefix))

	_, ok, err := marker.Acquire(ctx, "plan:t1", 10*time.Second)
	if err != nil || !ok {
		t.Fatalf("first Acquire = %v, %v", ok, err)
	}
	_, ok, _ = marker.Acquire(ctx, "plan:t1", 10*time.Second)
	if ok {
		t.Fatal("second Acquire succeeded while held")
	}
	if held, _ := marker.Held(ctx, "plan:t1"); !held {
		t.Fatal("Held = false while held")
	}

	mr.FastForward(11 * time.Second)
	if held, _ := marker.Held(ctx, "plan:t1"); held {
		t.Fatal("marker survived its TTL")
	}

	token, ok, _ := marker.Acquire(ctx, "plan:t1", 10*time.Second)
	if !ok {
		t.Fatal("Acquire after expiry failed")
	}
	if err := marker.Release(ctx, "plan:t1", token); err != nil {
		t.Fatal(err)
	}
	if held, _ := marker.Held(ctx, "plan:t1"); held {
		t.Fatal("Held after Release")
	}
}

func TestPendingMarkerReleaseKeepsSuccessor(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	marker := NewPendingMarker(NewCacheHelper(client, LockCacheConfig.Prefix))

	first, ok, err := marker.Acquire(ctx, "plan:t1", 30*time.Second)
	if err != nil || !ok {
		t.Fatalf("first Acquire = %v, %v", ok, err)
	}

	// first holder overruns its TTL and a second one takes over
	mr.FastForward(31 * time.Second)
	second, ok, _ := marker.Acquire(ctx, "plan:t1", 30*time.Second)
	if !ok {
		t.Fatal("Acquire after expiry failed")
	}

	if err := marker.Release(ctx, "plan:t1", first); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := marker.Acquire(ctx, "plan:t1", 30*time.Second); ok {
		t.Fatal("stale Release cleared the successor's marker")
	}

	if err := marker.Release(ctx, "plan:t1", second); err != nil {
		t.Fatal(err)
	}
	if held, _ := marker.Held(ctx, "plan:t1"); held {
		t.Fatal("Held after owner Release")
	}
}

func TestPendingMarkerLocal(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	marker := NewPendingMarker(NewCacheHelper(nil, LockCacheConfig.Prefix))
	marker.now = func() time.Time { return now }

	first, ok, _ := marker.Acquire(ctx, "k", time.Second)
	if !ok {
		t.Fatal("first Acquire failed")
	}
	if _, ok, _ := marker.Acquire(ctx, "k", time.Second); ok {
		t.Fatal("second Acquire succeeded")
	}
	now = now.Add(2 * time.Second)
	second, ok, _ := marker.Acquire(ctx, "k", time.Second)
	if !ok {
		t.Fatal("Acquire after expiry failed")
	}

	_ = marker.Release(ctx, "k", first)
	if held, _ := marker.Held(ctx, "k"); !held {
		t.Fatal("stale token released the current holder")
	}
	_ = marker.Release(ctx, "k", second)
	if held, _ := marker.Held(ctx, "k"); held {
		t.Fatal("Held after Release")
	}
}
