package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate reports whether spec is a schedule the scheduler accepts.
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

type Scheduler struct {
	c    *cron.Cron
	jobs map[string]*Job
	base context.Context
	log  *zap.Logger
}

func New(loc *time.Location, log *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "scheduler"))
	return &Scheduler{
		c: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger{log.Sugar()}),
		),
		jobs: make(map[string]*Job),
		base: context.Background(),
		log:  log,
	}
}

func (s *Scheduler) Add(j *Job) error {
	if _, dup := s.jobs[j.Name]; dup {
		return fmt.Errorf("job %q already registered", j.Name)
	}
	if _, err := s.c.AddFunc(j.Schedule, func() { j.TryRun(s.base) }); err != nil {
		return fmt.Errorf("schedule %s: %w", j.Name, err)
	}
	s.jobs[j.Name] = j
	s.log.Info("job scheduled", zap.String("job", j.Name), zap.String("schedule", j.Schedule))
	return nil
}

func (s *Scheduler) Job(name string) (*Job, bool) {
	j, ok := s.jobs[name]
	return j, ok
}

func (s *Scheduler) Jobs() []*Job {
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Run blocks until ctx is done, then waits for running ticks to finish.
// Ticks get a context that survives ctx cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.base = context.WithoutCancel(ctx)
	s.c.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))

	<-ctx.Done()

	s.log.Info("scheduler stopping, waiting for running jobs")
	<-s.c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw(msg, append(kv, "error", err)...)
}
