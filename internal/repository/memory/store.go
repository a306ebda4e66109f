package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/notified"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/domain/subscriber"
)

var (
	_ notified.Repo   = (*Records)(nil)
	_ subscriber.Repo = (*Subscribers)(nil)
)

type recordKey struct {
	recipient notified.RecipientID
	hash      site.ContentHash
}

// Records keeps notified sites in process memory. It backs dry runs and
// tests; nothing survives a restart.
type Records struct {
	mu      sync.Mutex
	nextID  int64
	records map[recordKey]int64
}

func NewRecords() *Records {
	return &Records{records: make(map[recordKey]int64)}
}

func (s *Records) GetByRecipientAndHash(_ context.Context, recipient notified.RecipientID, hash site.ContentHash) (*notified.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.records[recordKey{recipient, hash}]
	if !ok {
		return nil, notified.ErrNotFound
	}
	return &notified.Record{ID: id, RecipientID: recipient, Hash: hash}, nil
}

func (s *Records) Insert(_ context.Context, r *notified.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := recordKey{r.RecipientID, r.Hash}
	if id, ok := s.records[k]; ok {
		r.ID = id
		return nil
	}
	s.nextID++
	s.records[k] = s.nextID
	r.ID = s.nextID
	return nil
}

// Count returns how many distinct hashes are recorded for recipient.
func (s *Records) Count(recipient notified.RecipientID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.records {
		if k.recipient == recipient {
			n++
		}
	}
	return n
}

type Subscribers struct {
	mu   sync.Mutex
	subs map[int64]subscriber.Subscriber
}

func NewSubscribers(seed ...subscriber.Subscriber) *Subscribers {
	s := &Subscribers{subs: make(map[int64]subscriber.Subscriber, len(seed))}
	for _, sub := range seed {
		s.subs[sub.ID] = sub
	}
	return s
}

func (s *Subscribers) ListByRegion(_ context.Context, region string) ([]*subscriber.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*subscriber.Subscriber
	for _, sub := range s.subs {
		if sub.Region == region {
			cp := sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Subscribers) GetByID(_ context.Context, id int64) (*subscriber.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, subscriber.ErrNotFound
	}
	return &sub, nil
}

func (s *Subscribers) Insert(_ context.Context, sub *subscriber.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.ID]; ok {
		return subscriber.ErrConflict
	}
	s.subs[sub.ID] = *sub
	return nil
}

func (s *Subscribers) UpdateLastNotifiedAt(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return subscriber.ErrNotFound
	}
	sub.LastNotifiedAt = &at
	s.subs[id] = sub
	return nil
}
