package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu  sync.Mutex
	at  []time.Time
	err error
}

func (s *recordingSender) Send(_ context.Context, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.at = append(s.at, time.Now())
	return s.err
}

func TestThrottled_SpacesSends(t *testing.T) {
	rec := &recordingSender{}
	th := NewThrottled(rec, 40*time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, th.Send(context.Background(), "@chan", "hi"))
	}

	require.Len(t, rec.at, 3)
	for i := 1; i < len(rec.at); i++ {
		assert.GreaterOrEqual(t, rec.at[i].Sub(rec.at[i-1]), 35*time.Millisecond)
	}
}

func TestThrottled_ZeroDelayDoesNotWait(t *testing.T) {
	rec := &recordingSender{}
	th := NewThrottled(rec, 0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, th.Send(context.Background(), "1", "hi"))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottled_WrapsSendError(t *testing.T) {
	th := NewThrottled(&recordingSender{err: errors.New("chat not found")}, 0)

	err := th.Send(context.Background(), "@chan", "hi")

	assert.Equal(t, failure.KindSend, failure.KindOf(err))
	assert.Contains(t, err.Error(), "chat not found")
}

func TestThrottled_CancelledWait(t *testing.T) {
	rec := &recordingSender{}
	th := NewThrottled(rec, time.Hour)
	require.NoError(t, th.Send(context.Background(), "1", "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := th.Send(ctx, "1", "second")

	assert.Error(t, err)
	assert.Len(t, rec.at, 1)
}
