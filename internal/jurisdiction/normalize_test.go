package jurisdiction

import (
	"testing"
	"time"

	"github.com/NordCoder/Exposerus/internal/domain/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func queenslandRecord() site.RawRecord {
	return site.RawRecord{
		"date":     site.Known("2021-08-12T11:10"),
		"advice":   site.Known("Close contact"),
		"location": site.Known("Coles Cairns Central"),
		"address":  site.Known("1-21 McLeod St"),
		"suburb":   site.Known("Cairns"),
		"dateText": site.Known("Thursday 12 August 2021"),
		"timeText": site.Known("11.10am - 12pm"),
		"added":    site.Known("2021-08-13T09:00"),
	}
}

func mustProfile(t *testing.T, tag Tag) *Profile {
	t.Helper()
	p, err := For(tag)
	require.NoError(t, err)
	return p
}

func TestHash_KnownDigests(t *testing.T) {
	vic := mustProfile(t, Victoria)
	qld := mustProfile(t, Queensland)

	assert.Equal(t, site.ContentHash("cd48e63c10f7af1dbe2ddb00caee40fb"), vic.Hash(victoriaRecord()))
	assert.Equal(t, site.ContentHash("577dc15335644ba20e77e90e5f246449"), qld.Hash(queenslandRecord()))
}

func TestHash_IgnoresFieldsOutsideSubset(t *testing.T) {
	p := mustProfile(t, Victoria)

	a := victoriaRecord()
	b := victoriaRecord()
	b["Suburb"] = site.Known("Geelong")
	b["Exposure_time_start_24"] = site.Known("09:00:00")
	b["Site_streetaddress"] = site.Known("1 Main St")

	assert.Equal(t, p.Hash(a), p.Hash(b))
}

func TestHash_ChangesWithSubsetFields(t *testing.T) {
	p := mustProfile(t, Victoria)
	base := p.Hash(victoriaRecord())

	for _, key := range p.HashFields {
		rec := victoriaRecord()
		rec[key] = site.Known(rec[key].String() + " (updated)")
		assert.NotEqual(t, base, p.Hash(rec), key)
	}
}

func TestHash_UnknownDiffersFromEmpty(t *testing.T) {
	p := mustProfile(t, Victoria)

	missing := victoriaRecord()
	delete(missing, "Notes")
	empty := victoriaRecord()
	empty["Notes"] = site.Known("")

	assert.NotEqual(t, p.Hash(missing), p.Hash(empty))
	assert.Len(t, string(p.Hash(missing)), 32)
}

func TestCanonicalJSON_DoesNotEscapeHTML(t *testing.T) {
	raw := site.RawRecord{"a": site.Known("Fish & Chips <Cafe>")}
	assert.Equal(t, `{"a":"Fish & Chips <Cafe>","b":null}`, string(canonicalJSON([]string{"a", "b"}, raw)))
}

func TestNormalize_Victoria(t *testing.T) {
	p := mustProfile(t, Victoria)

	s := p.Normalize(victoriaRecord())

	assert.Equal(t, "Some site", s.Title.String())
	assert.Equal(t, "Melbourne", s.Suburb.String())
	assert.Equal(t, "1234", s.Postcode.String())
	assert.False(t, s.Address.IsKnown())
	assert.Equal(t, "12/08/2021 15:31:00", s.ExposureText)
	require.Equal(t, site.TimestampValid, s.Exposure.State)
	assert.True(t, s.Exposure.Time.Equal(time.Date(2021, 8, 12, 15, 31, 0, 0, p.Location)))
	assert.True(t, s.Displayable())
	assert.Equal(t, p.Hash(victoriaRecord()), s.Hash)
}

func TestNormalize_VictoriaDateOnly(t *testing.T) {
	p := mustProfile(t, Victoria)
	rec := victoriaRecord()
	delete(rec, "Exposure_time_start_24")

	s := p.Normalize(rec)

	require.Equal(t, site.TimestampValid, s.Exposure.State)
	assert.True(t, s.Exposure.Time.Equal(time.Date(2021, 8, 12, 0, 0, 0, 0, p.Location)))
}

func TestNormalize_InvalidTimestampStaysDisplayable(t *testing.T) {
	p := mustProfile(t, Victoria)
	rec := victoriaRecord()
	rec["Exposure_date"] = site.Known("2021-08-08")

	s := p.Normalize(rec)

	assert.Equal(t, site.TimestampInvalid, s.Exposure.State)
	assert.Equal(t, "2021-08-08 15:31:00", s.Exposure.Raw)
	assert.True(t, s.Displayable())
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	p := mustProfile(t, Queensland)

	noDate := queenslandRecord()
	delete(noDate, "date")
	s := p.Normalize(noDate)
	assert.Equal(t, site.TimestampUnknown, s.Exposure.State)
	assert.False(t, s.Displayable())
	assert.NotEmpty(t, s.Hash)

	noTitle := queenslandRecord()
	noTitle["location"] = site.Unknown
	assert.False(t, p.Normalize(noTitle).Displayable())
}

func TestNormalize_Queensland(t *testing.T) {
	p := mustProfile(t, Queensland)

	s := p.Normalize(queenslandRecord())

	assert.Equal(t, "Coles Cairns Central", s.Title.String())
	assert.Equal(t, "Thursday 12 August 2021 11.10am - 12pm", s.ExposureText)
	require.Equal(t, site.TimestampValid, s.Exposure.State)
	assert.True(t, s.Exposure.Time.Equal(time.Date(2021, 8, 12, 11, 10, 0, 0, p.Location)))
}

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("Victoria")
	require.NoError(t, err)
	assert.Equal(t, Victoria, tag)

	tag, err = ParseTag("qld")
	require.NoError(t, err)
	assert.Equal(t, Queensland, tag)

	_, err = ParseTag("tasmania")
	assert.Error(t, err)
}
