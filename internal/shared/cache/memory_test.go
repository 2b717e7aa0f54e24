package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total int `json:"total"`
}

func TestMemoryRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.SetJSON(ctx, "summary:30", payload{Total: 4}, time.Minute))

	var got payload
	hit, err := m.GetJSON(ctx, "summary:30", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 4, got.Total)

	now = now.Add(time.Minute)
	hit, err = m.GetJSON(ctx, "summary:30", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryDeletePrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SetJSON(ctx, "summary:7", payload{Total: 1}, 0))
	require.NoError(t, m.SetJSON(ctx, "summary:30", payload{Total: 2}, 0))
	require.NoError(t, m.SetJSON(ctx, "other", payload{Total: 3}, 0))

	require.NoError(t, m.DeletePrefix(ctx, "summary:"))

	var got payload
	hit, _ := m.GetJSON(ctx, "summary:7", &got)
	assert.False(t, hit)
	hit, _ = m.GetJSON(ctx, "other", &got)
	assert.True(t, hit)
}

func TestRedisKeyNamespace(t *testing.T) {
	r := NewRedis(nil, "harbor:")
	assert.Equal(t, "harbor:analytics:summary:30", r.key("analytics:summary:30"))
	assert.Equal(t, "k", NewRedis(nil, "").key("k"))
}

func TestNewRedisClientRequiresAddr(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "  ")
	assert.Error(t, err)
}
