package source

import (
	"bytes"
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/NordCoder/Exposerus/internal/jurisdiction"
	"github.com/NordCoder/Exposerus/internal/obs/retry"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var _ Adapter = (*HTMLAdapter)(nil)

// HTMLAdapter scrapes data-* attributes from the rows of one table.
type HTMLAdapter struct {
	f     fetcher
	table jurisdiction.Source
	loc   *time.Location
}

func NewHTMLAdapter(c *resty.Client, url string, table jurisdiction.Source, loc *time.Location, log *zap.Logger) *HTMLAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	log = log.With(zap.String("component", "source.html"))
	return &HTMLAdapter{
		f: fetcher{
			client: c,
			url:    url,
			accept: "text/html",
			policy: retry.DefaultFetchPolicy(log, transient),
			log:    log,
		},
		table: table,
		loc:   loc,
	}
}

func (a *HTMLAdapter) WithPolicy(p retry.Policy) *HTMLAdapter {
	cp := *a
	cp.f.policy = p
	return &cp
}

func (a *HTMLAdapter) Fetch(ctx context.Context) ([]site.RawRecord, error) {
	body, err := a.f.get(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := parseTable(body, a.table, a.loc)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		a.f.log.Warn("no rows found", zap.String("table", a.table.TableID))
	}
	return recs, nil
}

func parseTable(body []byte, table jurisdiction.Source, loc *time.Location) ([]site.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, failure.Parse("parse html", err)
	}

	var out []site.RawRecord
	doc.Find("#" + table.TableID + " tbody tr").Each(func(_ int, row *goquery.Selection) {
		rec := make(site.RawRecord, len(table.Attributes))
		for _, attr := range table.Attributes {
			v, ok := row.Attr(attr.Name)
			if !ok || v == "" {
				rec[attr.Key] = site.Unknown
				continue
			}
			rec[attr.Key] = site.Known(decodeURIComponent(v))
		}
		out = append(out, rec)
	})

	if table.SortKey != "" {
		sortNewestFirst(out, table.SortKey, table.SortLayout, loc)
	}
	return out, nil
}

// decodeURIComponent keeps '+' literal and returns the input on a bad escape.
func decodeURIComponent(s string) string {
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}

// sortNewestFirst orders records by key descending. Records whose key is
// missing or unparsable go last, in their original order.
func sortNewestFirst(recs []site.RawRecord, key, layout string, loc *time.Location) {
	type keyed struct {
		rec site.RawRecord
		at  time.Time
		ok  bool
	}
	ks := make([]keyed, len(recs))
	for i, r := range recs {
		ks[i].rec = r
		if f := r.Get(key); f.IsKnown() {
			if t, err := time.ParseInLocation(layout, f.String(), loc); err == nil {
				ks[i].at, ks[i].ok = t, true
			}
		}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].ok != ks[j].ok {
			return ks[i].ok
		}
		return ks[i].at.After(ks[j].at)
	})
	for i := range ks {
		recs[i] = ks[i].rec
	}
}
