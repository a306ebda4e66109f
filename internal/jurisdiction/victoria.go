package jurisdiction

import "html/template"

var victoriaTemplate = template.Must(template.New("victoria").Parse(lines(
	`<b>{{.Heading}}</b>`,
	`- Exposure Date/Time: {{.Ago}}, {{.When}}`,
	`- Suburb/Postcode: {{.Suburb}} {{.Postcode}}`,
	`- Advice: {{.Advice}}`,
	`- Instruction: {{.Instruction}}`,
	`- Note: {{.Note}}`,
)))

func victoria() *Profile {
	return &Profile{
		Tag: Victoria,
		Aliases: Aliases{
			Title:       "Site_title",
			Suburb:      "Suburb",
			Address:     "Site_streetaddress",
			Postcode:    "Site_postcode",
			Date:        "Exposure_date",
			StartTime:   "Exposure_time_start_24",
			DateText:    "Exposure_date",
			TimeText:    "Exposure_time",
			Advice:      "Advice_title",
			Instruction: "Advice_instruction",
			Note:        "Notes",
		},
		HashFields: []string{
			"Site_title",
			"Site_postcode",
			"Exposure_date",
			"Exposure_time",
			"Advice_title",
			"Advice_instruction",
			"Notes",
		},
		DateLayout:     "2/1/2006",
		DateTimeLayout: "2/1/2006 15:04:05",
		Location:       mustLocation("Australia/Melbourne"),
		Template:       victoriaTemplate,
		Source: Source{
			Format:      FormatJSON,
			RecordsPath: []string{"result", "records"},
		},
	}
}
