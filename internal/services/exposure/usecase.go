package exposure

import (
	"context"
	"time"

	"github.com/NordCoder/Exposerus/internal/dispatch"
	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"github.com/NordCoder/Exposerus/internal/jurisdiction"
	"github.com/NordCoder/Exposerus/internal/obs"
	"github.com/NordCoder/Exposerus/internal/services/dedup"
	"github.com/NordCoder/Exposerus/internal/source"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Target says who hears about a jurisdiction. Empty fields disable that path.
type Target struct {
	ChannelChatID    string
	SubscriberRegion string
}

type Result struct {
	Fetched         int
	ChannelSent     int
	SubscribersSeen int
	SubscriberSent  int
}

type Usecase struct {
	Profile     *jurisdiction.Profile
	Source      source.Adapter
	Engine      *dedup.Engine
	Subscribers subscriber.Repo
	Sender      notified.Sender
	Clock       notified.Clock
	Target      Target
	SendDelay   time.Duration
	Parallelism int

	log *zap.Logger
}

func NewUC(p *jurisdiction.Profile, src source.Adapter, eng *dedup.Engine, subs subscriber.Repo,
	sender notified.Sender, target Target, sendDelay time.Duration) *Usecase {
	return &Usecase{
		Profile:     p,
		Source:      src,
		Engine:      eng,
		Subscribers: subs,
		Sender:      sender,
		Clock:       notified.SystemClock{},
		Target:      target,
		SendDelay:   sendDelay,
		Parallelism: 8,
		log:         zap.L().With(zap.String("component", "exposure")),
	}
}

func (u *Usecase) WithLogger(l *zap.Logger) *Usecase {
	if l == nil {
		return u
	}
	cp := *u
	cp.log = l.With(zap.String("component", "exposure"))
	cp.Engine = u.Engine.WithLogger(l)
	return &cp
}

// Execute runs one fetch, normalize, dedup and notify pass.
func (u *Usecase) Execute(ctx context.Context) (Result, error) {
	var res Result
	tr := otel.Tracer("exposure.uc")
	ctx, span := tr.Start(ctx, "exposure.execute",
		trace.WithAttributes(attribute.String("jurisdiction", u.Profile.Tag.String())),
	)
	defer span.End()

	raws, err := u.Source.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	sites := make([]site.Site, 0, len(raws))
	for _, r := range raws {
		sites = append(sites, u.Profile.Normalize(r))
	}
	res.Fetched = len(sites)
	sitesFetched.WithLabelValues(u.Profile.Tag.String()).Add(float64(len(sites)))
	span.SetAttributes(attribute.Int("sites.fetched", len(sites)))
	obs.WithTrace(ctx, u.log).Debug("sites fetched", zap.Int("count", len(sites)))

	if u.Target.ChannelChatID != "" {
		n, err := u.notifyChannel(ctx, sites)
		res.ChannelSent = n
		if err != nil {
			span.RecordError(err)
			return res, err
		}
	}

	if u.Target.SubscriberRegion != "" {
		seen, n, err := u.notifySubscribers(ctx, sites)
		res.SubscribersSeen, res.SubscriberSent = seen, n
		if err != nil {
			span.RecordError(err)
			return res, err
		}
	}

	span.SetAttributes(
		attribute.Int("channel.sent", res.ChannelSent),
		attribute.Int("subscribers.sent", res.SubscriberSent),
	)
	return res, nil
}

func (u *Usecase) notifyChannel(ctx context.Context, sites []site.Site) (int, error) {
	ctx, span := otel.Tracer("exposure.uc").Start(ctx, "exposure.channel")
	defer span.End()

	chatID := u.Target.ChannelChatID
	recipient := notified.ChannelRecipient(chatID)
	sender := dispatch.NewThrottled(u.Sender, u.SendDelay)

	sent := 0
	for _, s := range sites {
		d, err := u.Engine.Decide(ctx, recipient, s)
		if err != nil {
			return sent, err
		}
		if d != dedup.Notify {
			continue
		}
		if err := u.deliver(ctx, sender, chatID, s); err != nil {
			return sent, err
		}
		sent++
	}
	span.SetAttributes(attribute.Int("sent", sent))
	return sent, nil
}

func (u *Usecase) notifySubscribers(ctx context.Context, sites []site.Site) (int, int, error) {
	ctx, span := otel.Tracer("exposure.uc").Start(ctx, "exposure.subscribers",
		trace.WithAttributes(attribute.String("region", u.Target.SubscriberRegion)),
	)
	defer span.End()

	subs, err := u.Subscribers.ListByRegion(ctx, u.Target.SubscriberRegion)
	if err != nil {
		return 0, 0, failure.Store("list subscribers", err)
	}

	var g errgroup.Group
	if u.Parallelism > 0 {
		g.SetLimit(u.Parallelism)
	}
	counts := make([]int, len(subs))
	for i, sub := range subs {
		g.Go(func() error {
			chatID := string(notified.SubscriberRecipient(sub.ID))
			sender := dispatch.NewThrottled(u.Sender, u.SendDelay)
			n, err := u.Engine.ProcessSubscriber(ctx, sub, sites, func(ctx context.Context, s site.Site) error {
				return u.deliver(ctx, sender, chatID, s)
			})
			counts[i] = n
			if err != nil {
				u.log.Warn("subscriber processing failed", zap.Int64("subscriber_id", sub.ID), zap.Error(err))
			}
			return err
		})
	}
	err = g.Wait()

	sent := 0
	for _, n := range counts {
		sent += n
	}
	span.SetAttributes(attribute.Int("subscribers", len(subs)), attribute.Int("sent", sent))
	return len(subs), sent, err
}

func (u *Usecase) deliver(ctx context.Context, sender notified.Sender, chatID string, s site.Site) error {
	text, err := u.Profile.Render(s, u.Clock.Now())
	if err != nil {
		return failure.Parse("render site", err)
	}
	if err := sender.Send(ctx, chatID, text); err != nil {
		return err
	}
	notificationsSent.WithLabelValues(u.Profile.Tag.String()).Inc()
	obs.WithTrace(ctx, u.log).Debug("site notified", zap.String("chat_id", chatID), zap.String("hash", string(s.Hash)))
	return nil
}
