package app

import (
	"context"
	"fmt"

	config "github.com/NordCoder/Exposerus/internal/config/notifier"
	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"github.com/NordCoder/Exposerus/internal/jurisdiction"
	"github.com/NordCoder/Exposerus/internal/repository/memory"
	pg "github.com/NordCoder/Exposerus/internal/repository/postgres"
	rdb "github.com/NordCoder/Exposerus/internal/repository/redis"
	"github.com/NordCoder/Exposerus/internal/repository/telegram"
	"github.com/NordCoder/Exposerus/internal/services/dedup"
	"github.com/NordCoder/Exposerus/internal/services/exposure"
	"github.com/NordCoder/Exposerus/internal/source"
	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Deps holds the stores and transports every job is built from.
type Deps struct {
	Cfg         *config.Config
	Log         *zap.Logger
	DB          *pg.DB
	Records     notified.Repo
	Subscribers subscriber.Repo
	Sender      notified.Sender
	Telegram    *telegram.Client
	HTTP        *resty.Client

	redis *redis.Client
}

type Options struct {
	// InMemory swaps PostgreSQL and Redis for process-local stores.
	InMemory bool
	// Sender overrides the Telegram transport.
	Sender notified.Sender
}

func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*Deps, error) {
	d := &Deps{
		Cfg:  cfg,
		Log:  log,
		HTTP: source.NewClient(cfg.Source.AsHTTPConfig()),
	}

	if opts.InMemory {
		d.Records = memory.NewRecords()
		d.Subscribers = memory.NewSubscribers()
	} else {
		db, err := pg.NewDB(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		d.DB = db
		d.Records = pg.NewNotifiedRepo(db)
		d.Subscribers = pg.NewSubscriberRepo(db)

		if cfg.Redis.Enabled {
			c, err := rdb.NewClient(ctx, cfg.Redis)
			if err != nil {
				d.Close()
				return nil, fmt.Errorf("redis connect: %w", err)
			}
			d.redis = c
			d.Records = rdb.NewSeenCache(d.Records, c).WithLogger(log)
		}
	}

	if opts.Sender != nil {
		d.Sender = opts.Sender
		return d, nil
	}
	if err := cfg.RequireToken(); err != nil {
		d.Close()
		return nil, err
	}
	tg, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.ServerURL, log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.Telegram = tg
	d.Sender = tg
	return d, nil
}

// Job assembles the exposure job for one config entry.
func (d *Deps) Job(nj config.NamedJob) (*exposure.Job, error) {
	base, err := jurisdiction.For(nj.Tag)
	if err != nil {
		return nil, err
	}
	p := *base
	if nj.TableID != "" {
		p.Source.TableID = nj.TableID
	}

	src, err := source.New(d.HTTP, nj.DataURL, &p, d.Log)
	if err != nil {
		return nil, err
	}
	eng := dedup.New(d.Records, d.Subscribers, nil)
	uc := exposure.NewUC(&p, src, eng, d.Subscribers, d.Sender, exposure.Target{
		ChannelChatID:    nj.ChannelChatID,
		SubscriberRegion: nj.SubscriberRegion,
	}, d.Cfg.Telegram.SendDelay)

	return exposure.NewJob(nj.Name, uc, d.Sender, d.Cfg.Telegram.AdminChatID).WithLogger(d.Log), nil
}

// EnabledJobs builds a job for every enabled config entry.
func (d *Deps) EnabledJobs() ([]config.NamedJob, []*exposure.Job, error) {
	var (
		named []config.NamedJob
		jobs  []*exposure.Job
	)
	for _, nj := range d.Cfg.Jobs.All() {
		if !nj.Enabled {
			d.Log.Info("job disabled", zap.String("job", nj.Name))
			continue
		}
		j, err := d.Job(nj)
		if err != nil {
			return nil, nil, fmt.Errorf("job %s: %w", nj.Name, err)
		}
		named = append(named, nj)
		jobs = append(jobs, j)
	}
	return named, jobs, nil
}

func (d *Deps) Health(ctx context.Context) error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Ping(ctx)
}

func (d *Deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
