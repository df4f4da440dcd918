package cache

import (
	"context"
	"credit-approval/internal/config"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(context.Background(), config.RedisConfig{}, testLogger)

	assert.ErrorIs(t, err, ErrDisabled)
	assert.Nil(t, client)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewRedisClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, testLogger)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to ping redis at 127.0.0.1:1")
	assert.Nil(t, client)
}
