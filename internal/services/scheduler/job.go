package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_ticks_total", Help: "Job executions by result",
	}, []string{"job", "result"})
	mSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_skipped_ticks_total", Help: "Ticks skipped because the job was still running",
	}, []string{"job"})
	mDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "scheduler_job_duration_seconds", Help: "Job execution duration",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	}, []string{"job"})
)

// ExecuteFunc runs one job execution tagged with correlationID.
type ExecuteFunc func(ctx context.Context, correlationID string) error

type Status struct {
	Name       string    `json:"name"`
	Schedule   string    `json:"schedule"`
	Running    bool      `json:"running"`
	LastStart  time.Time `json:"last_start,omitempty"`
	LastResult string    `json:"last_result,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// Job guards an ExecuteFunc so at most one execution is in flight.
type Job struct {
	Name     string
	Schedule string

	execute ExecuteFunc
	running atomic.Bool
	newID   func() string
	log     *zap.Logger

	mu         sync.Mutex
	lastStart  time.Time
	lastResult string
	lastErr    error
}

func NewJob(name, schedule string, exec ExecuteFunc) *Job {
	return &Job{
		Name:     name,
		Schedule: schedule,
		execute:  exec,
		newID:    uuid.NewString,
		log:      zap.L().With(zap.String("job", name)),
	}
}

func (j *Job) WithLogger(l *zap.Logger) *Job {
	if l != nil {
		j.log = l.With(zap.String("job", j.Name))
	}
	return j
}

// TryRun executes the job synchronously unless a previous run is still active.
func (j *Job) TryRun(ctx context.Context) bool {
	if !j.begin() {
		return false
	}
	j.run(ctx)
	return true
}

// Trigger starts a detached execution and reports whether it was accepted.
func (j *Job) Trigger(ctx context.Context) bool {
	if !j.begin() {
		return false
	}
	go j.run(context.WithoutCancel(ctx))
	return true
}

func (j *Job) Running() bool { return j.running.Load() }

func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	st := Status{
		Name:       j.Name,
		Schedule:   j.Schedule,
		Running:    j.running.Load(),
		LastStart:  j.lastStart,
		LastResult: j.lastResult,
	}
	if j.lastErr != nil {
		st.LastError = j.lastErr.Error()
	}
	return st
}

func (j *Job) begin() bool {
	if !j.running.CompareAndSwap(false, true) {
		mSkips.WithLabelValues(j.Name).Inc()
		j.log.Warn("skip tick: task still running")
		return false
	}
	return true
}

func (j *Job) run(ctx context.Context) {
	defer j.running.Store(false)

	id := j.newID()
	start := time.Now()
	j.mu.Lock()
	j.lastStart = start
	j.mu.Unlock()

	err := j.execute(ctx, id)

	result := "ok"
	if err != nil {
		result = "error"
	}
	mTicks.WithLabelValues(j.Name, result).Inc()
	mDuration.WithLabelValues(j.Name).Observe(time.Since(start).Seconds())

	j.mu.Lock()
	j.lastResult = result
	j.lastErr = err
	j.mu.Unlock()
	j.log.Debug("tick done", zap.String("uuid", id), zap.String("result", result))
}
