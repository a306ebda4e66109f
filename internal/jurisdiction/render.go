package jurisdiction

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/dustin/go-humanize"
)

const day = 24 * time.Hour

// moment.js style thresholds
var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "a few seconds %s", DivBy: time.Second},
	{D: 90 * time.Second, Format: "a minute %s", DivBy: time.Second},
	{D: 45 * time.Minute, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 90 * time.Minute, Format: "an hour %s", DivBy: time.Second},
	{D: 22 * time.Hour, Format: "%d hours %s", DivBy: time.Hour},
	{D: 36 * time.Hour, Format: "a day %s", DivBy: time.Second},
	{D: 26 * day, Format: "%d days %s", DivBy: day},
	{D: 45 * day, Format: "a month %s", DivBy: time.Second},
	{D: 320 * day, Format: "%d months %s", DivBy: 30 * day},
	{D: 548 * day, Format: "a year %s", DivBy: time.Second},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: 365 * day},
}

// Relative renders the exposure time relative to now, e.g. "3 days ago".
func Relative(ts site.Timestamp, now time.Time) string {
	switch ts.State {
	case site.TimestampInvalid:
		return "Invalid date"
	case site.TimestampValid:
		then := now.Add(-roundToMagnitude(now.Sub(ts.Time)))
		return humanize.CustomRelTime(then, now, "ago", "from now", relMagnitudes)
	default:
		return placeholder
	}
}

// roundToMagnitude rounds d to the unit of the magnitude it falls in,
// so 40h reads "2 days" rather than "1 days".
func roundToMagnitude(d time.Duration) time.Duration {
	abs := d
	if abs < 0 {
		abs = -abs
	}
	for _, m := range relMagnitudes {
		if abs < m.D {
			return d.Round(m.DivBy)
		}
	}
	return d
}

type view struct {
	Heading     string
	Address     string
	Suburb      string
	Postcode    string
	Ago         string
	When        string
	Advice      string
	Instruction string
	Note        string
}

func (p *Profile) Render(s site.Site, now time.Time) (string, error) {
	heading := s.Title.Or(placeholder)
	if s.Suburb.IsKnown() {
		heading = s.Suburb.String() + ": " + heading
	}
	v := view{
		Heading:     heading,
		Address:     s.Address.Or(placeholder),
		Suburb:      s.Suburb.Or(placeholder),
		Postcode:    s.Postcode.Or(placeholder),
		Ago:         Relative(s.Exposure, now),
		When:        s.ExposureText,
		Advice:      s.Advice.Or(placeholder),
		Instruction: s.Instruction.Or(placeholder),
		Note:        s.Note.Or(placeholder),
	}
	var b strings.Builder
	if err := p.Template.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render %s site: %w", p.Tag, err)
	}
	return b.String(), nil
}
