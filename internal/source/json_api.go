package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/obs/retry"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var _ Adapter = (*JSONAdapter)(nil)

// JSONAdapter reads records from a JSON API response nested under path.
type JSONAdapter struct {
	f    fetcher
	path []string
}

func NewJSONAdapter(c *resty.Client, url string, path []string, log *zap.Logger) *JSONAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "source.json"))
	return &JSONAdapter{
		f: fetcher{
			client: c,
			url:    url,
			accept: "application/json",
			policy: retry.DefaultFetchPolicy(log, transient),
			log:    log,
		},
		path: path,
	}
}

func (a *JSONAdapter) WithPolicy(p retry.Policy) *JSONAdapter {
	cp := *a
	cp.f.policy = p
	return &cp
}

func (a *JSONAdapter) Fetch(ctx context.Context) ([]site.RawRecord, error) {
	body, err := a.f.get(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := decodeRecords(body, a.path)
	if err != nil {
		return nil, err
	}
	a.f.log.Debug("records parsed", zap.Int("count", len(recs)))
	return recs, nil
}

func decodeRecords(body []byte, path []string) ([]site.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var node any
	if err := dec.Decode(&node); err != nil {
		return nil, failure.Parse("decode json", err)
	}

	for i, key := range path {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, failure.Parse("walk json", fmt.Errorf("%v is not an object", path[:i]))
		}
		node, ok = obj[key]
		if !ok || node == nil {
			return nil, nil
		}
	}

	items, ok := node.([]any)
	if !ok {
		return nil, failure.Parse("walk json", fmt.Errorf("%v is not an array", path))
	}
	out := make([]site.RawRecord, 0, len(items))
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, failure.Parse("walk json", fmt.Errorf("record %d is not an object", i))
		}
		rec := make(site.RawRecord, len(obj))
		for k, v := range obj {
			rec[k] = toField(v)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toField(v any) site.Field {
	switch t := v.(type) {
	case nil:
		return site.Unknown
	case string:
		if t == "" {
			return site.Unknown
		}
		return site.Known(t)
	case json.Number:
		return site.Known(t.String())
	case bool:
		return site.Known(strconv.FormatBool(t))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return site.Unknown
		}
		return site.Known(string(b))
	}
}
