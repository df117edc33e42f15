package domain

import "strings"

type Template struct {
	ID          string
	Name        string
	Description string
}

var templates = []Template{
	{ID: "plaint", Name: "Plaint", Description: "Civil suit plaint with cause of action and prayer"},
	{ID: "written_statement", Name: "Written Statement", Description: "Defendant's reply to a plaint, para-wise"},
	{ID: "legal_notice", Name: "Legal Notice", Description: "Pre-litigation notice to the opposite party"},
	{ID: "bail_application", Name: "Bail Application", Description: "Application for regular or anticipatory bail"},
	{ID: "writ_petition", Name: "Writ Petition", Description: "Petition invoking writ jurisdiction of the High Court"},
	{ID: "affidavit", Name: "Affidavit", Description: "Sworn statement of facts with verification"},
	{ID: "order_sheet", Name: "Order Sheet", Description: "Record of proceedings for a hearing date"},
}

func Templates() []Template {
	return append([]Template(nil), templates...)
}

func LookupTemplate(id string) (Template, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateName returns the display name, falling back to the raw identifier.
func TemplateName(id string) string {
	if t, ok := LookupTemplate(id); ok {
		return t.Name
	}
	return id
}
