package dedup

import (
	"context"
	"errors"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"go.uber.org/zap"
)

type Decision int

const (
	Skip Decision = iota
	Notify
)

func (d Decision) String() string {
	if d == Notify {
		return "notify"
	}
	return "skip"
}

// NotifyFunc delivers one site to the recipient being processed.
type NotifyFunc func(ctx context.Context, s site.Site) error

type Engine struct {
	records     notified.Repo
	subscribers subscriber.Repo
	clock       notified.Clock
	log         *zap.Logger
}

func New(records notified.Repo, subscribers subscriber.Repo, clock notified.Clock) *Engine {
	if clock == nil {
		clock = notified.SystemClock{}
	}
	return &Engine{
		records:     records,
		subscribers: subscribers,
		clock:       clock,
		log:         zap.L().With(zap.String("component", "dedup")),
	}
}

func (e *Engine) WithLogger(l *zap.Logger) *Engine {
	if l == nil {
		return e
	}
	cp := *e
	cp.log = l.With(zap.String("component", "dedup"))
	return &cp
}

// Decide records that recipient has seen s and reports whether it should be told.
func (e *Engine) Decide(ctx context.Context, recipient notified.RecipientID, s site.Site) (Decision, error) {
	_, err := e.records.GetByRecipientAndHash(ctx, recipient, s.Hash)
	switch {
	case err == nil:
		return Skip, nil
	case !errors.Is(err, notified.ErrNotFound):
		return Skip, failure.Store("get notified site", err)
	}

	if err := e.MarkSeen(ctx, recipient, s); err != nil {
		return Skip, err
	}
	if !s.Displayable() {
		e.log.Debug("site not displayable",
			zap.String("recipient", string(recipient)),
			zap.String("hash", string(s.Hash)),
			zap.Bool("title", s.Title.IsKnown()),
			zap.Bool("date", s.DateField.IsKnown()),
		)
		return Skip, nil
	}
	return Notify, nil
}

// MarkSeen records the site for recipient without any lookup.
func (e *Engine) MarkSeen(ctx context.Context, recipient notified.RecipientID, s site.Site) error {
	if err := e.records.Insert(ctx, &notified.Record{RecipientID: recipient, Hash: s.Hash}); err != nil {
		return failure.Store("insert notified site", err)
	}
	return nil
}

// ProcessSubscriber runs every site through the subscriber's decisions in order.
// A subscriber that was never notified gets all sites marked as seen and no
// messages. LastNotifiedAt is bumped once, after the last site.
func (e *Engine) ProcessSubscriber(ctx context.Context, sub *subscriber.Subscriber, sites []site.Site, notify NotifyFunc) (int, error) {
	recipient := notified.SubscriberRecipient(sub.ID)
	firstContact := sub.LastNotifiedAt == nil

	sent := 0
	for _, s := range sites {
		if firstContact {
			if err := e.MarkSeen(ctx, recipient, s); err != nil {
				return sent, err
			}
			continue
		}
		d, err := e.Decide(ctx, recipient, s)
		if err != nil {
			return sent, err
		}
		if d != Notify {
			continue
		}
		if err := notify(ctx, s); err != nil {
			return sent, err
		}
		sent++
	}

	if err := e.subscribers.UpdateLastNotifiedAt(ctx, sub.ID, e.clock.Now()); err != nil {
		return sent, failure.Store("update last notified", err)
	}
	if firstContact {
		e.log.Info("first contact, backlog marked as seen",
			zap.Int64("subscriber_id", sub.ID), zap.Int("sites", len(sites)))
	}
	return sent, nil
}
