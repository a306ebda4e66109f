package exposure

import (
	"context"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"go.uber.org/zap"
)

// Job is the failure boundary around one Usecase run: panics are recovered,
// errors are logged and reported to the admin chat.
type Job struct {
	Name        string
	UC          *Usecase
	Admin       notified.Sender
	AdminChatID string

	log *zap.Logger
}

func NewJob(name string, uc *Usecase, admin notified.Sender, adminChatID string) *Job {
	return &Job{
		Name:        name,
		UC:          uc,
		Admin:       admin,
		AdminChatID: adminChatID,
		log:         zap.L().With(zap.String("job", name)),
	}
}

func (j *Job) WithLogger(l *zap.Logger) *Job {
	if l == nil {
		return j
	}
	cp := *j
	cp.log = l.With(zap.String("job", j.Name))
	cp.UC = j.UC.WithLogger(l.With(zap.String("job", j.Name)))
	return &cp
}

// Execute matches the scheduler's execute signature.
func (j *Job) Execute(ctx context.Context, correlationID string) (err error) {
	log := j.log.With(zap.String("uuid", correlationID))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = failure.Recovered(r)
		}
		if err == nil {
			return
		}
		kind := failure.KindOf(err)
		jobErrors.WithLabelValues(j.Name, string(kind)).Inc()
		log.Error("job failed",
			zap.String("kind", string(kind)),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		j.alert(ctx, log, correlationID, err)
	}()

	log.Info("job started")
	res, err := j.UC.Execute(ctx)
	if err != nil {
		return err
	}
	log.Info("job finished",
		zap.Int("fetched", res.Fetched),
		zap.Int("channel_sent", res.ChannelSent),
		zap.Int("subscribers", res.SubscribersSeen),
		zap.Int("subscriber_sent", res.SubscriberSent),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (j *Job) alert(ctx context.Context, log *zap.Logger, correlationID string, cause error) {
	if j.Admin == nil || j.AdminChatID == "" {
		log.Warn("admin chat not configured, alert dropped")
		return
	}
	text := FormatAlert(j.Name, correlationID, cause)
	if err := j.Admin.Send(ctx, j.AdminChatID, text); err != nil {
		log.Error("admin alert failed", zap.Error(err))
	}
}
