package dispatch

import (
	"context"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var throttleWait = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "dispatch_throttle_wait_seconds",
	Help:    "Time spent waiting for the send throttle",
	Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 3, 5, 10},
})

var _ notified.Sender = (*Throttled)(nil)

// Throttled serializes sends so that consecutive messages are at least delay apart.
// A Throttled is meant for one recipient loop; share it to share the budget.
type Throttled struct {
	next notified.Sender
	lim  *rate.Limiter
}

func NewThrottled(next notified.Sender, delay time.Duration) *Throttled {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Throttled{next: next, lim: rate.NewLimiter(limit, 1)}
}

func (t *Throttled) Send(ctx context.Context, chatID, text string) error {
	start := time.Now()
	if err := t.lim.Wait(ctx); err != nil {
		return failure.Send("throttle wait", err)
	}
	throttleWait.Observe(time.Since(start).Seconds())

	if err := t.next.Send(ctx, chatID, text); err != nil {
		return failure.Send("send message", err)
	}
	return nil
}
