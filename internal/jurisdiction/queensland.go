package jurisdiction

import "html/template"

var queenslandTemplate = template.Must(template.New("queensland").Parse(lines(
	`<b>{{.Heading}}</b>`,
	`- Address: {{.Address}}`,
	`- Exposure Date/Time: {{.Ago}}, {{.When}}`,
	`- Advice: {{.Advice}}`,
)))

func queensland() *Profile {
	return &Profile{
		Tag: Queensland,
		Aliases: Aliases{
			Title:    "location",
			Suburb:   "suburb",
			Address:  "address",
			Date:     "date",
			DateText: "dateText",
			TimeText: "timeText",
			Advice:   "advice",
		},
		HashFields: []string{
			"date",
			"advice",
			"location",
			"address",
			"suburb",
			"timeText",
		},
		DateLayout: "2006-01-02T15:04",
		Location:   mustLocation("Australia/Brisbane"),
		Template:   queenslandTemplate,
		Source: Source{
			Format:  FormatHTML,
			TableID: "newrows-202041",
			Attributes: []Attribute{
				{Key: "date", Name: "data-date"},
				{Key: "advice", Name: "data-advice"},
				{Key: "location", Name: "data-location"},
				{Key: "address", Name: "data-address"},
				{Key: "suburb", Name: "data-suburb"},
				{Key: "dateText", Name: "data-datetext"},
				{Key: "timeText", Name: "data-timetext"},
				{Key: "added", Name: "data-added"},
			},
			SortKey:    "added",
			SortLayout: "2006-01-02T15:04",
		},
	}
}
