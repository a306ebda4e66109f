package exposure

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
	"github.com/NordCoder/Exposerus/internal/jurisdiction"
	"github.com/NordCoder/Exposerus/internal/repository/memory"
	"github.com/NordCoder/Exposerus/internal/services/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type message struct{ chatID, text string }

type recordingSender struct {
	mu   sync.Mutex
	msgs []message
	err  error
}

func (s *recordingSender) Send(_ context.Context, chatID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, message{chatID, text})
	return nil
}

func (s *recordingSender) to(chatID string) []message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []message
	for _, m := range s.msgs {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

type stubSource struct {
	recs []site.RawRecord
	err  error
}

func (s stubSource) Fetch(context.Context) ([]site.RawRecord, error) { return s.recs, s.err }

type lookup struct {
	recipient notified.RecipientID
	hash      site.ContentHash
}

type spyRecords struct {
	*memory.Records
	mu      sync.Mutex
	lookups []lookup
}

func (s *spyRecords) GetByRecipientAndHash(ctx context.Context, r notified.RecipientID, h site.ContentHash) (*notified.Record, error) {
	s.mu.Lock()
	s.lookups = append(s.lookups, lookup{r, h})
	s.mu.Unlock()
	return s.Records.GetByRecipientAndHash(ctx, r, h)
}

func victoriaRecord() site.RawRecord {
	return site.RawRecord{
		"Site_title":             site.Known("Some site"),
		"Site_postcode":          site.Known("1234"),
		"Suburb":                 site.Known("Melbourne"),
		"Exposure_date":          site.Known("12/08/2021"),
		"Exposure_time":          site.Known("15:31:00"),
		"Exposure_time_start_24": site.Known("15:31:00"),
		"Advice_title":           site.Known("Tier 1"),
		"Advice_instruction":     site.Known("Get isolated"),
		"Notes":                  site.Known("Some note"),
	}
}

type fixture struct {
	uc     *Usecase
	recs   *spyRecords
	subs   *memory.Subscribers
	sender *recordingSender
}

func newFixture(t *testing.T, src stubSource, target Target, seed ...subscriber.Subscriber) *fixture {
	t.Helper()
	p, err := jurisdiction.For(jurisdiction.Victoria)
	require.NoError(t, err)

	now := time.Date(2021, 8, 15, 15, 31, 0, 0, p.Location)
	recs := &spyRecords{Records: memory.NewRecords()}
	subs := memory.NewSubscribers(seed...)
	sender := &recordingSender{}

	eng := dedup.New(recs, subs, fixedClock{now})
	uc := NewUC(p, src, eng, subs, sender, target, 0).WithLogger(zap.NewNop())
	uc.Clock = fixedClock{now}
	return &fixture{uc: uc, recs: recs, subs: subs, sender: sender}
}

func TestExecute_ChannelConfigured(t *testing.T) {
	f := newFixture(t, stubSource{recs: []site.RawRecord{victoriaRecord()}}, Target{ChannelChatID: "@vic"})

	res, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, f.recs.lookups, 1)
	assert.Equal(t, notified.RecipientID("@vic"), f.recs.lookups[0].recipient)
	assert.Equal(t, site.ContentHash("cd48e63c10f7af1dbe2ddb00caee40fb"), f.recs.lookups[0].hash)

	msgs := f.sender.to("@vic")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].text, "Melbourne")
	assert.Contains(t, msgs[0].text, "Some site")
	assert.Contains(t, msgs[0].text, "3 days ago, 12/08/2021 15:31:00")
	assert.Contains(t, msgs[0].text, "Tier 1")
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 1, res.ChannelSent)

	_, err = f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.sender.to("@vic"), 1)
}

func TestExecute_ChannelNotConfigured(t *testing.T) {
	f := newFixture(t, stubSource{recs: []site.RawRecord{victoriaRecord()}}, Target{})

	res, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.recs.lookups)
	assert.Empty(t, f.sender.msgs)
	assert.Equal(t, 1, res.Fetched)
}

func TestExecute_NonDisplayableSiteIsRecordedNotSent(t *testing.T) {
	rec := victoriaRecord()
	delete(rec, "Site_title")
	f := newFixture(t, stubSource{recs: []site.RawRecord{rec}}, Target{ChannelChatID: "@vic"})

	_, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.sender.msgs)
	assert.Equal(t, 1, f.recs.Count("@vic"))
}

func TestExecute_SubscribersFirstContactThenDelta(t *testing.T) {
	earlier := time.Date(2021, 8, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t,
		stubSource{recs: []site.RawRecord{victoriaRecord()}},
		Target{SubscriberRegion: "Australia/Melbourne"},
		subscriber.Subscriber{ID: 1, Region: "Australia/Melbourne"},
		subscriber.Subscriber{ID: 2, Region: "Australia/Melbourne", LastNotifiedAt: &earlier},
		subscriber.Subscriber{ID: 3, Region: "Australia/Brisbane", LastNotifiedAt: &earlier},
	)

	res, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.sender.to("1"))
	assert.Len(t, f.sender.to("2"), 1)
	assert.Empty(t, f.sender.to("3"))
	assert.Equal(t, 2, res.SubscribersSeen)
	assert.Equal(t, 1, res.SubscriberSent)
	assert.Equal(t, 1, f.recs.Count("1"))

	newer := victoriaRecord()
	newer["Site_title"] = site.Known("Another site")
	f.uc.Source = stubSource{recs: []site.RawRecord{victoriaRecord(), newer}}

	_, err = f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.sender.to("1"), 1)
	assert.Len(t, f.sender.to("2"), 2)
}

func TestExecute_FetchErrorLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, stubSource{err: failure.Fetch("download source", errors.New("boom"))},
		Target{ChannelChatID: "@vic"})

	_, err := f.uc.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.KindFetch, failure.KindOf(err))
	assert.Empty(t, f.recs.lookups)
	assert.Empty(t, f.sender.msgs)
}

func TestExecute_SendFailureIsSendKind(t *testing.T) {
	f := newFixture(t, stubSource{recs: []site.RawRecord{victoriaRecord()}}, Target{ChannelChatID: "@vic"})
	f.sender.err = errors.New("chat not found")

	_, err := f.uc.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, failure.KindSend, failure.KindOf(err))
}
