package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/jurisdiction"
	"github.com/NordCoder/Exposerus/internal/obs/retry"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Adapter interface {
	Fetch(ctx context.Context) ([]site.RawRecord, error)
}

// New picks the adapter matching the profile's source format.
func New(c *resty.Client, url string, p *jurisdiction.Profile, log *zap.Logger) (Adapter, error) {
	if url == "" {
		return nil, fmt.Errorf("%s: empty data url", p.Tag)
	}
	switch p.Source.Format {
	case jurisdiction.FormatJSON:
		return NewJSONAdapter(c, url, p.Source.RecordsPath, log), nil
	case jurisdiction.FormatHTML:
		return NewHTMLAdapter(c, url, p.Source, p.Location, log), nil
	}
	return nil, fmt.Errorf("%s: unsupported source format %d", p.Tag, p.Source.Format)
}

type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.url, e.code)
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}

type fetcher struct {
	client *resty.Client
	url    string
	accept string
	policy retry.Policy
	log    *zap.Logger
}

func (f *fetcher) get(ctx context.Context) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, func() error {
		resp, err := f.client.R().
			SetContext(ctx).
			SetHeader("Accept", f.accept).
			Get(f.url)
		if err != nil {
			return fmt.Errorf("GET %s: %w", f.url, err)
		}
		if resp.IsError() {
			return &statusError{url: f.url, code: resp.StatusCode()}
		}
		body = resp.Body()
		return nil
	}, f.policy)
	if err != nil {
		return nil, failure.Fetch("download source", err)
	}
	f.log.Debug("source downloaded", zap.String("url", f.url), zap.Int("bytes", len(body)))
	return body, nil
}
