package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"github.com/jackc/pgx/v5"
)

var _ subscriber.Repo = (*SubscriberRepo)(nil)

type SubscriberRepo struct{ db *DB }

func NewSubscriberRepo(db *DB) *SubscriberRepo { return &SubscriberRepo{db: db} }

const (
	qSubscriberInsert = `
INSERT INTO subscribers (id, is_bot, first_name, username, language_code, region, last_notified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	qSubscriberByID = `
SELECT id, is_bot, first_name, username, language_code, region, last_notified_at
FROM subscribers
WHERE id = $1;`

	qSubscribersByRegion = `
SELECT id, is_bot, first_name, username, language_code, region, last_notified_at
FROM subscribers
WHERE region = $1
ORDER BY id;`

	qSubscriberTouch = `
UPDATE subscribers
SET last_notified_at = $2
WHERE id = $1;`
)

func (r *SubscriberRepo) Insert(ctx context.Context, s *subscriber.Subscriber) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qSubscriberInsert,
		s.ID, s.IsBot, s.FirstName, s.Username, s.LanguageCode, s.Region, s.LastNotifiedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return subscriber.ErrConflict
		}
		return fmt.Errorf("subscriber insert: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) GetByID(ctx context.Context, id int64) (*subscriber.Subscriber, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var s subscriber.Subscriber
	if err := scanSubscriber(r.db.Pool.QueryRow(ctx, qSubscriberByID, id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriberRepo) ListByRegion(ctx context.Context, region string) ([]*subscriber.Subscriber, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qSubscribersByRegion, region)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var out []*subscriber.Subscriber
	for rows.Next() {
		var s subscriber.Subscriber
		if err := scanSubscriber(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *SubscriberRepo) UpdateLastNotifiedAt(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qSubscriberTouch, id, at.UTC())
	if err != nil {
		return fmt.Errorf("subscriber touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return subscriber.ErrNotFound
	}
	return nil
}

func scanSubscriber(row pgx.Row, out *subscriber.Subscriber) error {
	var (
		firstName, username, lang, region *string
		last                              *time.Time
	)
	if err := row.Scan(&out.ID, &out.IsBot, &firstName, &username, &lang, &region, &last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subscriber.ErrNotFound
		}
		return fmt.Errorf("scan subscriber: %w", err)
	}
	out.FirstName = deref(firstName)
	out.Username = deref(username)
	out.LanguageCode = deref(lang)
	out.Region = deref(region)
	out.LastNotifiedAt = last
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
