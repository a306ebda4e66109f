package redis

import (
	"context"
	"errors"

	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const keyPrefix = "exposerus:seen:"

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "seen_cache_lookups_total",
	Help: "Seen-cache lookups by result",
}, []string{"result"})

var _ notified.Repo = (*SeenCache)(nil)

// SeenCache answers "already notified" from a Redis set per recipient and
// falls through to the wrapped repo on a miss.
type SeenCache struct {
	next notified.Repo
	rdb  *redis.Client
	log  *zap.Logger
}

func NewSeenCache(next notified.Repo, rdb *redis.Client) *SeenCache {
	return &SeenCache{
		next: next,
		rdb:  rdb,
		log:  zap.L().With(zap.String("component", "seen-cache")),
	}
}

func (c *SeenCache) WithLogger(l *zap.Logger) *SeenCache {
	if l == nil {
		return c
	}
	cp := *c
	cp.log = l.With(zap.String("component", "seen-cache"))
	return &cp
}

func key(recipient notified.RecipientID) string { return keyPrefix + string(recipient) }

func (c *SeenCache) GetByRecipientAndHash(ctx context.Context, recipient notified.RecipientID, hash site.ContentHash) (*notified.Record, error) {
	hit, err := c.rdb.SIsMember(ctx, key(recipient), string(hash)).Result()
	switch {
	case err != nil:
		cacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("seen-cache lookup failed", zap.Error(err))
	case hit:
		cacheLookups.WithLabelValues("hit").Inc()
		return &notified.Record{RecipientID: recipient, Hash: hash}, nil
	default:
		cacheLookups.WithLabelValues("miss").Inc()
	}

	rec, err := c.next.GetByRecipientAndHash(ctx, recipient, hash)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, recipient, hash)
	return rec, nil
}

func (c *SeenCache) Insert(ctx context.Context, r *notified.Record) error {
	if err := c.next.Insert(ctx, r); err != nil {
		return err
	}
	c.remember(ctx, r.RecipientID, r.Hash)
	return nil
}

func (c *SeenCache) remember(ctx context.Context, recipient notified.RecipientID, hash site.ContentHash) {
	if err := c.rdb.SAdd(ctx, key(recipient), string(hash)).Err(); err != nil && !errors.Is(err, context.Canceled) {
		c.log.Warn("seen-cache write failed", zap.String("recipient", string(recipient)), zap.Error(err))
	}
}
