package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/jackc/pgx/v5"
)

var _ notified.Repo = (*NotifiedRepo)(nil)

type NotifiedRepo struct{ db *DB }

func NewNotifiedRepo(db *DB) *NotifiedRepo { return &NotifiedRepo{db: db} }

const (
	qNotifiedByRecipientHash = `
SELECT id, subscriber_id, hash
FROM notified_sites
WHERE subscriber_id = $1 AND hash = $2
ORDER BY id
LIMIT 1;`

	qNotifiedInsert = `
INSERT INTO notified_sites (subscriber_id, hash)
VALUES ($1, $2)
ON CONFLICT (subscriber_id, hash) DO NOTHING
RETURNING id;`
)

func (r *NotifiedRepo) GetByRecipientAndHash(ctx context.Context, recipient notified.RecipientID, hash site.ContentHash) (*notified.Record, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var rec notified.Record
	if err := r.db.Pool.QueryRow(ctx, qNotifiedByRecipientHash, string(recipient), string(hash)).
		Scan(&rec.ID, &rec.RecipientID, &rec.Hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notified.ErrNotFound
		}
		return nil, fmt.Errorf("select notified site: %w", err)
	}
	return &rec, nil
}

// Insert is idempotent: a pair that already exists leaves rec.ID unset.
func (r *NotifiedRepo) Insert(ctx context.Context, rec *notified.Record) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qNotifiedInsert, string(rec.RecipientID), string(rec.Hash)).
		Scan(&rec.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("insert notified site: %w", err)
	}
	return nil
}
