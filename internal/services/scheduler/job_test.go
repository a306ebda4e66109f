package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTryRun_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	j := NewJob("vic", "* * * * *", func(context.Context, string) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}).WithLogger(zap.NewNop())

	done := make(chan bool)
	go func() { done <- j.TryRun(context.Background()) }()
	<-started

	assert.True(t, j.Running())
	assert.False(t, j.TryRun(context.Background()))
	assert.False(t, j.Trigger(context.Background()))
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	assert.True(t, <-done)
	assert.False(t, j.Running())
}

func TestTryRun_FreshCorrelationIDs(t *testing.T) {
	var ids []string
	j := NewJob("vic", "* * * * *", func(_ context.Context, id string) error {
		ids = append(ids, id)
		return nil
	}).WithLogger(zap.NewNop())

	require.True(t, j.TryRun(context.Background()))
	require.True(t, j.TryRun(context.Background()))

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestStatus_RecordsLastResult(t *testing.T) {
	fail := true
	j := NewJob("qld", "@every 1m", func(context.Context, string) error {
		if fail {
			return errors.New("fetch: boom")
		}
		return nil
	}).WithLogger(zap.NewNop())

	st := j.Status()
	assert.Equal(t, "qld", st.Name)
	assert.Equal(t, "@every 1m", st.Schedule)
	assert.True(t, st.LastStart.IsZero())

	j.TryRun(context.Background())
	st = j.Status()
	assert.Equal(t, "error", st.LastResult)
	assert.Equal(t, "fetch: boom", st.LastError)
	assert.False(t, st.LastStart.IsZero())

	fail = false
	j.TryRun(context.Background())
	st = j.Status()
	assert.Equal(t, "ok", st.LastResult)
	assert.Empty(t, st.LastError)
}

func TestTrigger_RunsDetached(t *testing.T) {
	ran := make(chan struct{})
	j := NewJob("vic", "* * * * *", func(ctx context.Context, _ string) error {
		assert.NoError(t, ctx.Err())
		close(ran)
		return nil
	}).WithLogger(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, j.Trigger(ctx))
	cancel()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job did not run")
	}
	require.Eventually(t, func() bool { return !j.Running() }, time.Second, 10*time.Millisecond)
}
