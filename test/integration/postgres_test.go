//go:build integration

package integration

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	pg "github.com/NordCoder/Exposerus/internal/repository/postgres"
	"github.com/NordCoder/Exposerus/internal/services/dedup"
	"github.com/stretchr/testify/require"
)

func openRepos(t *testing.T) (*pg.NotifiedRepo, *pg.SubscriberRepo, func(string) int) {
	t.Helper()
	cfg := LoadCfg()

	sqlDB := DBOpen(t, cfg.DBDSN)
	t.Cleanup(func() { _ = sqlDB.Close() })
	Migrate(t, sqlDB)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	db, err := pg.NewDB(ctx, pg.Config{DSN: cfg.DBDSN, QueryTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return pg.NewNotifiedRepo(db), pg.NewSubscriberRepo(db), func(r string) int {
		return CountNotified(t, sqlDB, r)
	}
}

func TestNotifiedRepo_InsertIsIdempotent(t *testing.T) {
	records, _, count := openRepos(t)
	ctx := context.Background()

	recipient := notified.ChannelRecipient(fmt.Sprintf("@it-%d", RandID()))
	hash := site.ContentHash("cd48e63c10f7af1dbe2ddb00caee40fb")

	_, err := records.GetByRecipientAndHash(ctx, recipient, hash)
	require.ErrorIs(t, err, notified.ErrNotFound)

	first := &notified.Record{RecipientID: recipient, Hash: hash}
	require.NoError(t, records.Insert(ctx, first))
	require.NotZero(t, first.ID)
	require.NoError(t, records.Insert(ctx, &notified.Record{RecipientID: recipient, Hash: hash}))
	require.Equal(t, 1, count(string(recipient)))

	got, err := records.GetByRecipientAndHash(ctx, recipient, hash)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, recipient, got.RecipientID)
}

func TestSubscriberRepo_Lifecycle(t *testing.T) {
	_, subs, _ := openRepos(t)
	ctx := context.Background()

	region := fmt.Sprintf("it-region-%d", RandID())
	s := &subscriber.Subscriber{ID: RandID(), FirstName: "Ada", Username: "ada", LanguageCode: "en", Region: region}
	require.NoError(t, subs.Insert(ctx, s))
	require.ErrorIs(t, subs.Insert(ctx, s), subscriber.ErrConflict)

	got, err := subs.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", got.Username)
	require.Nil(t, got.LastNotifiedAt)

	at := time.Date(2021, 8, 12, 1, 0, 0, 0, time.UTC)
	require.NoError(t, subs.UpdateLastNotifiedAt(ctx, s.ID, at))

	list, err := subs.ListByRegion(ctx, region)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LastNotifiedAt)
	require.True(t, at.Equal(*list[0].LastNotifiedAt))

	_, err = subs.GetByID(ctx, -1)
	require.ErrorIs(t, err, subscriber.ErrNotFound)
	require.ErrorIs(t, subs.UpdateLastNotifiedAt(ctx, -1, at), subscriber.ErrNotFound)
}

func TestDedup_FirstContactThenDelta(t *testing.T) {
	records, subs, count := openRepos(t)
	ctx := context.Background()

	s := &subscriber.Subscriber{ID: RandID(), Region: fmt.Sprintf("it-dedup-%d", RandID())}
	require.NoError(t, subs.Insert(ctx, s))

	mk := func(h string) site.Site {
		return site.Site{Title: site.Known("t-" + h), DateField: site.Known("12/08/2021"), Hash: site.ContentHash(h)}
	}
	eng := dedup.New(records, subs, nil)
	var sent []site.ContentHash
	notify := func(_ context.Context, st site.Site) error {
		sent = append(sent, st.Hash)
		return nil
	}

	n, err := eng.ProcessSubscriber(ctx, s, []site.Site{mk("a"), mk("b")}, notify)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, 2, count(strconv.FormatInt(s.ID, 10)))

	s, err = subs.GetByID(ctx, s.ID)
	require.NoError(t, err)
	n, err = eng.ProcessSubscriber(ctx, s, []site.Site{mk("a"), mk("b"), mk("c")}, notify)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []site.ContentHash{"c"}, sent)
}
