package jurisdiction

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	_ "time/tzdata"
)

type Tag int

const (
	Victoria Tag = iota + 1
	Queensland
)

func (t Tag) String() string {
	switch t {
	case Victoria:
		return "victoria"
	case Queensland:
		return "queensland"
	default:
		return fmt.Sprintf("jurisdiction(%d)", int(t))
	}
}

func ParseTag(s string) (Tag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "victoria", "vic":
		return Victoria, nil
	case "queensland", "qld":
		return Queensland, nil
	}
	return 0, fmt.Errorf("unknown jurisdiction %q", s)
}

type Format int

const (
	FormatJSON Format = iota + 1
	FormatHTML
)

// Aliases maps canonical site fields to the source's own keys.
// An empty alias means the jurisdiction never publishes that field.
type Aliases struct {
	Title       string
	Suburb      string
	Address     string
	Postcode    string
	Date        string
	StartTime   string
	DateText    string
	TimeText    string
	Advice      string
	Instruction string
	Note        string
}

type Attribute struct {
	Key  string
	Name string
}

type Source struct {
	Format Format

	// JSON payloads.
	RecordsPath []string

	// HTML tables.
	TableID    string
	Attributes []Attribute
	SortKey    string
	SortLayout string
}

type Profile struct {
	Tag            Tag
	Aliases        Aliases
	HashFields     []string
	DateLayout     string
	DateTimeLayout string
	Location       *time.Location
	Template       *template.Template
	Source         Source
}

var profiles = map[Tag]*Profile{
	Victoria:   victoria(),
	Queensland: queensland(),
}

func For(tag Tag) (*Profile, error) {
	p, ok := profiles[tag]
	if !ok {
		return nil, fmt.Errorf("no profile for %s", tag)
	}
	return p, nil
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

func lines(ls ...string) string { return strings.Join(ls, "\n") }
