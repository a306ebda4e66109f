package jurisdiction

import (
	"testing"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Victoria(t *testing.T) {
	p := mustProfile(t, Victoria)
	now := time.Date(2021, 8, 15, 15, 31, 0, 0, p.Location)

	msg, err := p.Render(p.Normalize(victoriaRecord()), now)

	require.NoError(t, err)
	assert.Equal(t, "<b>Melbourne: Some site</b>\n"+
		"- Exposure Date/Time: 3 days ago, 12/08/2021 15:31:00\n"+
		"- Suburb/Postcode: Melbourne 1234\n"+
		"- Advice: Tier 1\n"+
		"- Instruction: Get isolated\n"+
		"- Note: Some note", msg)
}

func TestRender_VictoriaWithoutSuburbAndInvalidDate(t *testing.T) {
	p := mustProfile(t, Victoria)
	now := time.Date(2021, 8, 15, 15, 31, 0, 0, p.Location)
	rec := victoriaRecord()
	delete(rec, "Suburb")
	rec["Exposure_date"] = site.Known("2021-08-08")

	msg, err := p.Render(p.Normalize(rec), now)

	require.NoError(t, err)
	assert.Equal(t, "<b>Some site</b>\n"+
		"- Exposure Date/Time: Invalid date, 2021-08-08 15:31:00\n"+
		"- Suburb/Postcode: N/A 1234\n"+
		"- Advice: Tier 1\n"+
		"- Instruction: Get isolated\n"+
		"- Note: Some note", msg)
}

func TestRender_Queensland(t *testing.T) {
	p := mustProfile(t, Queensland)
	now := time.Date(2021, 8, 15, 11, 10, 0, 0, p.Location)

	msg, err := p.Render(p.Normalize(queenslandRecord()), now)

	require.NoError(t, err)
	assert.Equal(t, "<b>Cairns: Coles Cairns Central</b>\n"+
		"- Address: 1-21 McLeod St\n"+
		"- Exposure Date/Time: 3 days ago, Thursday 12 August 2021 11.10am - 12pm\n"+
		"- Advice: Close contact", msg)
}

func TestRender_EscapesValues(t *testing.T) {
	p := mustProfile(t, Queensland)
	rec := queenslandRecord()
	rec["address"] = site.Known("Kennedy Hwy & <Captain Cook Hwy>")
	delete(rec, "advice")

	msg, err := p.Render(p.Normalize(rec), time.Now())

	require.NoError(t, err)
	assert.Contains(t, msg, "- Address: Kennedy Hwy &amp; &lt;Captain Cook Hwy&gt;\n")
	assert.Contains(t, msg, "- Advice: N/A")
}

func TestRelative(t *testing.T) {
	now := time.Date(2021, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   site.Timestamp
		want string
	}{
		{"seconds", site.ValidTimestamp(now.Add(-10 * time.Second)), "a few seconds ago"},
		{"minutes", site.ValidTimestamp(now.Add(-5 * time.Minute)), "5 minutes ago"},
		{"hours", site.ValidTimestamp(now.Add(-3 * time.Hour)), "3 hours ago"},
		{"a day", site.ValidTimestamp(now.Add(-30 * time.Hour)), "a day ago"},
		{"days", site.ValidTimestamp(now.Add(-(23*day + 4*time.Hour))), "23 days ago"},
		{"future", site.ValidTimestamp(now.Add(2 * day)), "2 days from now"},
		{"hours round up", site.ValidTimestamp(now.Add(-100 * time.Minute)), "2 hours ago"},
		{"days round up", site.ValidTimestamp(now.Add(-40 * time.Hour)), "2 days ago"},
		{"months round up", site.ValidTimestamp(now.Add(-50 * day)), "2 months ago"},
		{"years round up", site.ValidTimestamp(now.Add(-600 * day)), "2 years ago"},
		{"hours round down", site.ValidTimestamp(now.Add(-(5*time.Hour + 20*time.Minute))), "5 hours ago"},
		{"invalid", site.InvalidTimestamp("2021-08-08"), "Invalid date"},
		{"unknown", site.Timestamp{}, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.ts, now))
		})
	}
}
