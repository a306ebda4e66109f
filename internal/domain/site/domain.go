package site

import "time"

// Field is a scraped value. The zero Field is the unknown sentinel.
type Field struct {
	value string
	known bool
}

var Unknown = Field{}

func Known(v string) Field { return Field{value: v, known: true} }

func (f Field) IsKnown() bool { return f.known }

func (f Field) String() string { return f.value }

// Or returns the value, or placeholder when the field is unknown.
func (f Field) Or(placeholder string) string {
	if !f.known {
		return placeholder
	}
	return f.value
}

// RawRecord is one source row keyed by the jurisdiction's own field names.
type RawRecord map[string]Field

func (r RawRecord) Get(key string) Field {
	if key == "" {
		return Unknown
	}
	return r[key]
}

type TimestampState int

const (
	TimestampUnknown TimestampState = iota
	TimestampInvalid
	TimestampValid
)

func (s TimestampState) String() string {
	switch s {
	case TimestampInvalid:
		return "invalid"
	case TimestampValid:
		return "valid"
	default:
		return "unknown"
	}
}

type Timestamp struct {
	State TimestampState
	Time  time.Time
	Raw   string
}

func InvalidTimestamp(raw string) Timestamp {
	return Timestamp{State: TimestampInvalid, Raw: raw}
}

func ValidTimestamp(t time.Time) Timestamp {
	return Timestamp{State: TimestampValid, Time: t}
}

type ContentHash string

type Site struct {
	Title       Field
	Suburb      Field
	Address     Field
	Postcode    Field
	Advice      Field
	Instruction Field
	Note        Field

	// DateField is the raw exposure date as published, before parsing.
	DateField    Field
	Exposure     Timestamp
	ExposureText string

	Source RawRecord
	Hash   ContentHash
}

// Displayable reports whether the site has enough fields to be rendered.
func (s Site) Displayable() bool {
	return s.Title.IsKnown() && s.DateField.IsKnown()
}
