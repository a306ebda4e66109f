package notified

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/site"
)

var ErrNotFound = errors.New("notified site not found")

// RecipientID is either a broadcast channel id or a decimal subscriber id.
type RecipientID string

func ChannelRecipient(chatID string) RecipientID { return RecipientID(chatID) }

func SubscriberRecipient(id int64) RecipientID {
	return RecipientID(strconv.FormatInt(id, 10))
}

type Record struct {
	ID          int64            `json:"id"`
	RecipientID RecipientID      `json:"subscriber_id"`
	Hash        site.ContentHash `json:"hash"`
}

type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
