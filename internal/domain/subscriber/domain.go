package subscriber

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("subscriber not found")
	ErrConflict = errors.New("subscriber already exists")
)

type Subscriber struct {
	ID             int64      `json:"id"`
	IsBot          bool       `json:"is_bot"`
	FirstName      string     `json:"first_name"`
	Username       string     `json:"username"`
	LanguageCode   string     `json:"language_code"`
	Region         string     `json:"region"`
	LastNotifiedAt *time.Time `json:"last_notified_at"`
}
