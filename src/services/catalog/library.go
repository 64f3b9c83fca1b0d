package catalog

import (
	"strings"

	"Backend-Inspectrack/src/models"
)

// LibraryEntry is a suggested shape for a custom item with a familiar label.
type LibraryEntry struct {
	Label     string           `json:"label"`
	InputType models.InputType `json:"inputType"`
	Unit      string           `json:"unit,omitempty"`
	Options   []string         `json:"options,omitempty"`
}

var library = []LibraryEntry{
	{Label: "Boiler pressure", InputType: models.InputNumber, Unit: "psi"},
	{Label: "Boiler temperature", InputType: models.InputNumber, Unit: "°F"},
	{Label: "Domestic hot water temperature", InputType: models.InputNumber, Unit: "°F"},
	{Label: "Pool chlorine", InputType: models.InputNumber, Unit: "ppm"},
	{Label: "Pool pH", InputType: models.InputNumber},
	{Label: "Sump pump", InputType: models.InputCombinedToggle},
	{Label: "Exhaust fan", InputType: models.InputOnOff},
	{Label: "Roof access door", InputType: models.InputOpenClosed},
	{Label: "Fire door", InputType: models.InputOpenClosed},
	{Label: "Emergency lighting", InputType: models.InputPassFail},
	{Label: "Exit signs", InputType: models.InputPassFail},
	{Label: "Fire extinguisher", InputType: models.InputOKIssue},
	{Label: "Elevator", InputType: models.InputOKIssue},
	{Label: "Air handler filter", InputType: models.InputMechanicalMaintenance},
	{Label: "Cooling tower", InputType: models.InputMechanicalMaintenance},
	{Label: "Garbage room condition", InputType: models.InputSelect, Options: []string{"Clean", "Needs attention", "Unsanitary"}},
	{Label: "Water meter reading", InputType: models.InputNumber, Unit: "m³"},
	{Label: "Comments", InputType: models.InputTextarea},
}

// LookupLibrary finds a library entry by label, ignoring case and surrounding space.
func LookupLibrary(label string) (LibraryEntry, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return LibraryEntry{}, false
	}
	for _, e := range library {
		if strings.ToLower(e.Label) == key {
			if e.Options != nil {
				e.Options = append([]string(nil), e.Options...)
			}
			return e, true
		}
	}
	return LibraryEntry{}, false
}

// SearchLibrary returns entries whose label contains the query, for autocomplete.
func SearchLibrary(query string) []LibraryEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []LibraryEntry{}
	for _, e := range library {
		if q == "" || strings.Contains(strings.ToLower(e.Label), q) {
			out = append(out, e)
		}
	}
	return out
}
