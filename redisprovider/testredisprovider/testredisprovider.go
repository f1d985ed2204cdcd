package testredisprovider

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	"github.com/anyproto/any-sync/app"
	"github.com/redis/go-redis/v9"

	"github.com/pushmesh/pushmesh/redisprovider"
)

// NewTestRedisProvider runs an in-process miniredis instance for tests.
func NewTestRedisProvider() *TestRedisProvider {
	return &TestRedisProvider{}
}

// NewTestRedisProviderAddr connects to an already running miniredis, so
// several test apps can share one instance.
func NewTestRedisProviderAddr(addr string) *TestRedisProvider {
	return &TestRedisProvider{addr: addr}
}

type TestRedisProvider struct {
	addr   string
	mini   *miniredis.Miniredis
	client redis.UniversalClient
}

func (t *TestRedisProvider) Init(a *app.App) (err error) {
	if t.addr == "" {
		if t.mini, err = miniredis.Run(); err != nil {
			return err
		}
		t.addr = t.mini.Addr()
	}
	t.client = redis.NewClient(&redis.Options{Addr: t.addr})
	return
}

func (t *TestRedisProvider) Name() (name string) {
	return redisprovider.CName
}

func (t *TestRedisProvider) Run(ctx context.Context) (err error) {
	return t.client.Ping(ctx).Err()
}

func (t *TestRedisProvider) Redis() redis.UniversalClient {
	return t.client
}

func (t *TestRedisProvider) Close(ctx context.Context) (err error) {
	if err = t.client.Close(); err != nil {
		return
	}
	if t.mini != nil {
		t.mini.Close()
	}
	return
}
