package notified

import (
	"context"

	"github.com/NordCoder/Exposerus/internal/domain/site"
)

type Repo interface {
	GetByRecipientAndHash(ctx context.Context, recipient RecipientID, hash site.ContentHash) (*Record, error)
	Insert(ctx context.Context, r *Record) error
}
