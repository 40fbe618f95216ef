package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ProjectPulse/pkg/errors"
)

func TestNewClient_Standalone(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.PoolStats())
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	client, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func TestUniversalOptions(t *testing.T) {
	opts := universalOptions(&config.RedisConfig{Addr: "a:6379"})
	assert.Equal(t, []string{"a:6379"}, opts.Addrs)
	assert.Positive(t, opts.PoolSize)
	assert.Equal(t, defaultIOTimeout, opts.ReadTimeout)
	assert.Equal(t, "standalone", modeOf(opts))

	opts = universalOptions(&config.RedisConfig{Addr: "ignored", Addrs: []string{"n1:7000", "n2:7000"}})
	assert.Equal(t, []string{"n1:7000", "n2:7000"}, opts.Addrs)
	assert.Equal(t, "cluster", modeOf(opts))

	opts = universalOptions(&config.RedisConfig{Addrs: []string{"s1:26379", "s2:26379"}, MasterName: "main"})
	assert.Equal(t, "sentinel", modeOf(opts))
}

func TestClient_CommandsAndClose(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClientFromUniversal(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "foo", "bar", 0).Err())
	val, err := client.Get(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, "bar", val)

	n, err := client.Exists(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	keys, _, err := client.Scan(ctx, 0, "f*", 10).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, keys)

	deleted, err := client.Del(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Ping(ctx), ErrClientClosed)
	assert.ErrorIs(t, client.Get(ctx, "foo").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Set(ctx, "foo", "x", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Del(ctx, "foo").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Exists(ctx, "foo").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Scan(ctx, 0, "*", 10).Err(), ErrClientClosed)
}

//Personal.AI order the ending
