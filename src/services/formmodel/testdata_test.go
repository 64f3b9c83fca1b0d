package formmodel

import "Backend-Inspectrack/src/models"

func sampleTemplate() models.FormTemplate {
	return models.FormTemplate{
		ID:   "weekly",
		Name: "Weekly Check",
		Sections: []models.TemplateSection{
			{
				ID:    "a",
				Title: "Section A",
				Items: []models.ChecklistItemDefinition{
					{ID: "a1", Label: "Doors", InputType: models.InputPassFail, Required: true},
					{ID: "a2", Label: "Lights", InputType: models.InputOKIssue, Required: true},
					{ID: "a3", Label: "Notes", InputType: models.InputTextarea},
				},
			},
			{
				ID:    "b",
				Title: "Section B",
				Items: []models.ChecklistItemDefinition{
					{ID: "b1", Label: "Pump", InputType: models.InputCombinedToggle, Required: true},
					{ID: "b2", Label: "Filter", InputType: models.InputMechanicalMaintenance, Required: true},
				},
			},
		},
	}
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
