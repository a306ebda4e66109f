package subscriber

import (
	"context"
	"time"
)

type Repo interface {
	ListByRegion(ctx context.Context, region string) ([]*Subscriber, error)
	GetByID(ctx context.Context, id int64) (*Subscriber, error)
	Insert(ctx context.Context, s *Subscriber) error
	UpdateLastNotifiedAt(ctx context.Context, id int64, at time.Time) error
}
