package redis

import (
	"context"
	"testing"
	"time"

	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	incrResults map[string]int64
	expired     map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		incrResults: map[string]int64{},
		expired:     map[string]time.Duration{},
	}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.incrResults[key]++
	return redis.NewIntResult(f.incrResults[key], nil)
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expired[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{store: newFakeStore()}
	if got := c.AccessSessionKey("abc"); got != "mf:session:access:abc" {
		t.Fatalf("session key = %q", got)
	}
	if got := c.RateLimitKey("login:1.2.3.4"); got != "mf:rate_limit:login:1.2.3.4" {
		t.Fatalf("rate limit key = %q", got)
	}
}

func TestFixedWindowAllow(t *testing.T) {
	store := newFakeStore()
	c := &Client{store: store}

	for i := 0; i < 3; i++ {
		allowed, _, err := c.FixedWindowAllow(context.Background(), "login", 2, time.Minute)
		if err != nil {
			t.Fatalf("FixedWindowAllow: %v", err)
		}
		if i < 2 && !allowed {
			t.Fatalf("call %d should be allowed", i)
		}
		if i == 2 && allowed {
			t.Fatal("third call should be limited")
		}
	}

	if ttl := store.expired[c.RateLimitKey("login")]; ttl != time.Minute {
		t.Fatalf("expected window TTL on first increment, got %v", ttl)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error with no URL or address")
	}
}
