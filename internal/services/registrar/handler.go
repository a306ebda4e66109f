package registrar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"go.uber.org/zap"
)

const greeting = "Please subscribe a channel for the notification."

// Handler registers /start senders as subscribers and points them at the channels.
type Handler struct {
	subs     subscriber.Repo
	region   string
	channels []string
	log      *zap.Logger
}

func New(subs subscriber.Repo, region string, channels []string) *Handler {
	return &Handler{
		subs:     subs,
		region:   region,
		channels: channels,
		log:      zap.L().With(zap.String("component", "registrar")),
	}
}

func (h *Handler) WithLogger(l *zap.Logger) *Handler {
	if l == nil {
		return h
	}
	cp := *h
	cp.log = l.With(zap.String("component", "registrar"))
	return &cp
}

// HandleStart stores from unless it is already known and returns the reply text.
func (h *Handler) HandleStart(ctx context.Context, from subscriber.Subscriber) (string, error) {
	existing, err := h.subs.GetByID(ctx, from.ID)
	switch {
	case err == nil:
		h.log.Info("subscriber already registered",
			zap.Int64("subscriber_id", existing.ID), zap.String("region", existing.Region))
	case errors.Is(err, subscriber.ErrNotFound):
		from.Region = h.region
		from.LastNotifiedAt = nil
		if err := h.subs.Insert(ctx, &from); err != nil && !errors.Is(err, subscriber.ErrConflict) {
			return "", fmt.Errorf("insert subscriber: %w", err)
		}
		h.log.Info("subscriber registered",
			zap.Int64("subscriber_id", from.ID), zap.String("region", h.region))
	default:
		return "", fmt.Errorf("get subscriber: %w", err)
	}
	return h.reply(), nil
}

func (h *Handler) reply() string {
	if len(h.channels) == 0 {
		return greeting
	}
	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n")
	for _, ch := range h.channels {
		b.WriteString("\n- ")
		b.WriteString(ch)
	}
	return b.String()
}
