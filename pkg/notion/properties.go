package notion

import (
	"github.com/jomei/notionapi"

	"ghnotion/pkg/mirror"
)

// toNotionProperties renders mapped properties in the Notion page property shape
func toNotionProperties(props mirror.Properties) notionapi.Properties {
	options := make([]notionapi.Option, 0, len(props.Labels))
	for _, label := range props.Labels {
		options = append(options, notionapi.Option{Name: label.Name})
	}

	return notionapi.Properties{
		props.Schema.StateField: notionapi.SelectProperty{
			Select: notionapi.Option{Name: props.State},
		},
		props.Schema.KeyField: notionapi.NumberProperty{
			Number: float64(props.Key),
		},
		props.Schema.TitleField: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{Text: &notionapi.Text{Content: props.Title}},
			},
		},
		props.Schema.LabelsField: notionapi.MultiSelectProperty{
			MultiSelect: options,
		},
	}
}

// numberValue extracts the value of a number property
func numberValue(p notionapi.Property) (float64, bool) {
	switch v := p.(type) {
	case *notionapi.NumberProperty:
		return v.Number, true
	case notionapi.NumberProperty:
		return v.Number, true
	default:
		return 0, false
	}
}

type expectedField struct {
	name string
	kind string
}

// expectedFields lists the database property types each schema field must have
func expectedFields(schema mirror.Schema) []expectedField {
	return []expectedField{
		{name: schema.StateField, kind: "select"},
		{name: schema.KeyField, kind: "number"},
		{name: schema.TitleField, kind: "rich_text"},
		{name: schema.LabelsField, kind: "multi_select"},
	}
}
