package catalog

import "Backend-Inspectrack/src/models"

func item(id, label string, t models.InputType, required bool) models.ChecklistItemDefinition {
	return models.ChecklistItemDefinition{ID: id, Label: label, InputType: t, Required: required}
}

func measured(id, label, unit string, required bool) models.ChecklistItemDefinition {
	return models.ChecklistItemDefinition{ID: id, Label: label, InputType: models.InputNumber, Required: required, Unit: unit}
}

func choice(id, label string, required bool, options ...string) models.ChecklistItemDefinition {
	return models.ChecklistItemDefinition{ID: id, Label: label, InputType: models.InputSelect, Required: required, Options: options}
}

func builtinTemplates() []models.FormTemplate {
	return []models.FormTemplate{
		{
			ID:          "daily-building",
			Name:        "Daily Building Walkthrough",
			Description: "Common areas, entrances and building envelope",
			Sections: []models.TemplateSection{
				{
					ID:    "lobby",
					Title: "Lobby & Entrances",
					Items: []models.ChecklistItemDefinition{
						item("entrance-doors", "Entrance doors close and latch", models.InputPassFail, true),
						item("intercom", "Intercom / buzzer system", models.InputOKIssue, true),
						item("lobby-lighting", "Lobby lighting", models.InputOnOff, true),
						choice("lobby-cleanliness", "Lobby cleanliness", true, "Clean", "Needs attention", "Unsanitary"),
						item("mailroom-door", "Mailroom door", models.InputOpenClosed, false),
					},
				},
				{
					ID:    "corridors",
					Title: "Corridors & Stairwells",
					Items: []models.ChecklistItemDefinition{
						item("corridor-lighting", "Corridor lighting functional", models.InputPassFail, true),
						item("stairwell-clear", "Stairwells free of obstructions", models.InputPassFail, true),
						item("handrails", "Handrails secure", models.InputOKIssue, true),
						item("flooring", "Flooring / carpet condition", models.InputOKIssue, false),
					},
				},
				{
					ID:    "exterior",
					Title: "Exterior",
					Items: []models.ChecklistItemDefinition{
						item("sidewalks", "Sidewalks clear and safe", models.InputPassFail, true),
						item("garbage-area", "Garbage area tidy", models.InputOKIssue, true),
						item("roof-door", "Roof access door", models.InputOpenClosed, true),
						item("exterior-notes", "Exterior observations", models.InputTextarea, false),
					},
				},
			},
		},
		{
			ID:          "fire-safety",
			Name:        "Fire & Life Safety",
			Description: "Monthly fire protection and egress checks",
			Sections: []models.TemplateSection{
				{
					ID:    "alarm",
					Title: "Fire Alarm System",
					Items: []models.ChecklistItemDefinition{
						item("panel-normal", "Fire alarm panel in normal state", models.InputPassFail, true),
						item("panel-troubles", "Trouble signals present", models.InputText, false),
						item("pull-stations", "Pull stations unobstructed", models.InputPassFail, true),
					},
				},
				{
					ID:    "egress",
					Title: "Egress",
					Items: []models.ChecklistItemDefinition{
						item("exit-signs", "Exit signs illuminated", models.InputPassFail, true),
						item("emergency-lighting", "Emergency lighting test", models.InputPassFail, true),
						item("fire-doors", "Fire doors self-close", models.InputOKIssue, true),
					},
				},
				{
					ID:    "suppression",
					Title: "Suppression",
					Items: []models.ChecklistItemDefinition{
						measured("sprinkler-pressure", "Sprinkler riser pressure", "psi", true),
						item("extinguishers", "Extinguishers charged and tagged", models.InputOKIssue, true),
						item("fire-pump", "Fire pump", models.InputCombinedToggle, true),
					},
				},
			},
		},
		{
			ID:          "mechanical-room",
			Name:        "Mechanical Room",
			Description: "Boilers, pumps and air handling equipment",
			Sections: []models.TemplateSection{
				{
					ID:    "heating",
					Title: "Heating Plant",
					Items: []models.ChecklistItemDefinition{
						measured("boiler-pressure", "Boiler pressure", "psi", true),
						measured("boiler-temp", "Boiler supply temperature", "°F", true),
						item("boiler-status", "Boiler", models.InputCombinedToggle, true),
						measured("dhw-temp", "Domestic hot water temperature", "°F", false),
					},
				},
				{
					ID:    "pumps",
					Title: "Pumps",
					Items: []models.ChecklistItemDefinition{
						item("circ-pump", "Circulation pump", models.InputCombinedToggle, true),
						item("sump-pump", "Sump pump", models.InputCombinedToggle, false),
						item("pump-leaks", "No visible leaks", models.InputPassFail, true),
					},
				},
				{
					ID:    "air",
					Title: "Air Handling",
					Items: []models.ChecklistItemDefinition{
						item("ahu-filter", "Air handler filter", models.InputMechanicalMaintenance, true),
						item("ahu-belts", "Fan belts", models.InputMechanicalMaintenance, false),
						item("exhaust-fans", "Exhaust fans", models.InputOnOff, true),
					},
				},
			},
		},
		{
			ID:          "pool-amenities",
			Name:        "Pool & Amenities",
			Description: "Pool chemistry and amenity spaces",
			Sections: []models.TemplateSection{
				{
					ID:    "pool",
					Title: "Pool",
					Items: []models.ChecklistItemDefinition{
						measured("chlorine", "Free chlorine", "ppm", true),
						measured("ph", "pH", "", true),
						item("pool-gate", "Pool gate self-latches", models.InputPassFail, true),
						item("lifesaving", "Life-saving equipment present", models.InputOKIssue, true),
					},
				},
				{
					ID:    "gym",
					Title: "Fitness Room",
					Items: []models.ChecklistItemDefinition{
						item("gym-equipment", "Equipment condition", models.InputOKIssue, false),
						choice("gym-cleanliness", "Cleanliness", false, "Clean", "Needs attention", "Unsanitary"),
						item("gym-notes", "Notes", models.InputTextarea, false),
					},
				},
			},
		},
	}
}
