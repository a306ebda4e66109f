package jurisdiction

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"maps"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/site"
)

const placeholder = "N/A"

func (p *Profile) Normalize(raw site.RawRecord) site.Site {
	a := p.Aliases
	s := site.Site{
		Title:       raw.Get(a.Title),
		Suburb:      raw.Get(a.Suburb),
		Address:     raw.Get(a.Address),
		Postcode:    raw.Get(a.Postcode),
		Advice:      raw.Get(a.Advice),
		Instruction: raw.Get(a.Instruction),
		Note:        raw.Get(a.Note),
		DateField:   raw.Get(a.Date),
		Source:      maps.Clone(raw),
	}
	s.Exposure = p.timestamp(raw)
	s.ExposureText = raw.Get(a.DateText).Or(placeholder) + " " + raw.Get(a.TimeText).Or(placeholder)
	s.Hash = p.Hash(raw)
	return s
}

func (p *Profile) timestamp(raw site.RawRecord) site.Timestamp {
	date := raw.Get(p.Aliases.Date)
	if !date.IsKnown() {
		return site.Timestamp{}
	}
	text, layout := date.String(), p.DateLayout
	if start := raw.Get(p.Aliases.StartTime); start.IsKnown() && p.DateTimeLayout != "" {
		text, layout = text+" "+start.String(), p.DateTimeLayout
	}
	t, err := time.ParseInLocation(layout, text, p.Location)
	if err != nil {
		return site.InvalidTimestamp(text)
	}
	return site.ValidTimestamp(t)
}

// Hash digests the profile's hash fields as compact JSON in declaration order.
// Unknown values are encoded as null.
func (p *Profile) Hash(raw site.RawRecord) site.ContentHash {
	sum := md5.Sum(canonicalJSON(p.HashFields, raw))
	return site.ContentHash(hex.EncodeToString(sum[:]))
}

func canonicalJSON(keys []string, raw site.RawRecord) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, k)
		buf.WriteByte(':')
		if f := raw.Get(k); f.IsKnown() {
			writeString(&buf, f.String())
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// strings always encode
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}
