package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// windowScripter plays the window script against in-memory counters.
type windowScripter struct {
	redis.Scripter

	counts map[string]int64
	ttls   map[string]int64
	keys   []string
	err    error
	reply  []interface{}
}

func newWindowScripter() *windowScripter {
	return &windowScripter{counts: map[string]int64{}, ttls: map[string]int64{}}
}

func (s *windowScripter) run(keys []string, args ...interface{}) *redis.Cmd {
	if s.err != nil {
		return redis.NewCmdResult(nil, s.err)
	}
	if s.reply != nil {
		return redis.NewCmdResult(s.reply, nil)
	}

	key := keys[0]
	s.keys = append(s.keys, key)

	s.counts[key]++
	if s.counts[key] == 1 {
		s.ttls[key] = args[0].(int64)
	}

	return redis.NewCmdResult([]interface{}{s.counts[key], s.ttls[key]}, nil)
}

func (s *windowScripter) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.run(keys, args...)
}

func (s *windowScripter) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.run(keys, args...)
}

// expire ends every open window.
func (s *windowScripter) expire() {
	s.counts = map[string]int64{}
	s.ttls = map[string]int64{}
}

func TestAllowUpToLimit(t *testing.T) {
	rdb := newWindowScripter()
	l := New(rdb, "pin", 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, retryAfter, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d", i+1)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 15*time.Minute, retryAfter)
	assert.Equal(t, "pin:1.2.3.4", rdb.keys[0])
}

func TestAllowKeysAreIndependent(t *testing.T) {
	rdb := newWindowScripter()
	l := New(rdb, "pin", 1, time.Minute)
	ctx := context.Background()

	allowed, _, err := l.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = l.Allow(ctx, "2.2.2.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = l.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAllowResetsAfterWindow(t *testing.T) {
	rdb := newWindowScripter()
	l := New(rdb, "pin", 1, time.Minute)
	ctx := context.Background()

	_, _, err := l.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	allowed, _, err := l.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	require.False(t, allowed)

	rdb.expire()

	allowed, _, err = l.Allow(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowReportsRedisErrors(t *testing.T) {
	rdb := newWindowScripter()
	rdb.err = errors.New("connection refused")
	l := New(rdb, "pin", 5, time.Minute)

	allowed, _, err := l.Allow(context.Background(), "1.1.1.1")
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, allowed)
}

func TestAllowRejectsMalformedReply(t *testing.T) {
	rdb := newWindowScripter()
	rdb.reply = []interface{}{int64(1)}
	l := New(rdb, "pin", 5, time.Minute)

	_, _, err := l.Allow(context.Background(), "1.1.1.1")
	assert.ErrorContains(t, err, "unexpected script result")
}

func TestRetryAfterRoundsUp(t *testing.T) {
	assert.Equal(t, time.Second, RetryAfter(0))
	assert.Equal(t, time.Second, RetryAfter(200*time.Millisecond))
	assert.Equal(t, 2*time.Second, RetryAfter(1001*time.Millisecond))
	assert.Equal(t, 15*time.Minute, RetryAfter(15*time.Minute))
}

func TestNewAppliesFloors(t *testing.T) {
	l := New(nil, "pin", 0, 0)
	assert.Equal(t, 1, l.limit)
	assert.Equal(t, time.Minute, l.window)
	assert.Equal(t, "pin:1.2.3.4", l.key("1.2.3.4"))
}
