package database

import (
	"context"
	"testing"
	"time"

	"bharat-seva/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_EmptyAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.EqualError(t, err, "redis address is empty")

	_, err = ConnectRedis(context.Background(), config.RedisConfig{})
	assert.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := ConnectRedis(context.Background(), config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Client.Set(context.Background(), "seva:ping", "1", 0).Err())
	assert.True(t, mr.Exists("seva:ping"))
}

func TestConnectRedis_FailedPingReleasesConnections(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	for attempt := 0; attempt < 3; attempt++ {
		c, err := ConnectRedis(context.Background(), config.RedisConfig{Address: mr.Addr()})
		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "redis ping failed")
	}

	assert.Eventually(t, func() bool {
		return mr.CurrentConnectionCount() == 0
	}, 2*time.Second, 20*time.Millisecond)
}
