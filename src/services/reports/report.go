package reports

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/formmodel"
)

const unanswered = "-"

type Row struct {
	ItemID         string
	Label          string
	Answer         string
	Note           string
	ActionBy       string
	CompletionDate string
	Flagged        bool
}

type Section struct {
	Title string
	Rows  []Row
}

// Report is the printable transcript of one inspection.
type Report struct {
	InspectionID string
	FormName     string
	CompletedAt  time.Time
	Status       models.InspectionStatus
	ItemsCount   int
	IssuesCount  int
	Sections     []Section
	Link         string
}

// BuildReport lays the inspection's answers over the layout frozen at
// submission. Inspections recorded without one fall back to the form as the
// building currently sees it. Answers for items outside the layout are listed
// under "Other items" so nothing recorded is lost; with no layout at all every
// answer lands in a single "Responses" section.
func BuildReport(in models.Inspection, t models.FormTemplate, c models.TemplateCustomization) Report {
	r := Report{
		InspectionID: in.ID,
		FormName:     in.FormName,
		CompletedAt:  in.CompletedAt,
		Status:       in.Status,
		ItemsCount:   in.ItemsCount,
		IssuesCount:  in.IssuesCount,
	}

	seen := map[string]bool{}
	for _, s := range layoutOf(in, t, c) {
		sec := Section{Title: s.Title}
		for _, it := range s.Items {
			seen[it.ID] = true
			resp, ok := in.Responses[it.ID]
			row := Row{ItemID: it.ID, Label: it.Label, Answer: unanswered}
			if ok {
				row.Answer = FormatAnswer(it, resp.Value)
				row.Note = resp.Note
				row.ActionBy = resp.ActionBy
				row.CompletionDate = resp.CompletionDate
				row.Flagged = formmodel.IsIssue(it.InputType, resp.Value)
			}
			sec.Rows = append(sec.Rows, row)
		}
		r.Sections = append(r.Sections, sec)
	}

	var orphans []string
	for id := range in.Responses {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		sort.Strings(orphans)
		title := "Other items"
		if len(r.Sections) == 0 {
			title = "Responses"
		}
		sec := Section{Title: title}
		for _, id := range orphans {
			resp := in.Responses[id]
			row := Row{
				ItemID:         id,
				Label:          id,
				Note:           resp.Note,
				ActionBy:       resp.ActionBy,
				CompletionDate: resp.CompletionDate,
			}
			def, known := definitionOf(in, t, c, id)
			if known {
				row.Label = def.Label
				row.Flagged = formmodel.IsIssue(def.InputType, resp.Value)
			}
			row.Answer = FormatAnswer(def, resp.Value)
			sec.Rows = append(sec.Rows, row)
		}
		r.Sections = append(r.Sections, sec)
	}
	return r
}

func layoutOf(in models.Inspection, t models.FormTemplate, c models.TemplateCustomization) []formmodel.MergedSection {
	if len(in.Sections) == 0 {
		return formmodel.Merge(t, c)
	}
	out := make([]formmodel.MergedSection, 0, len(in.Sections))
	for _, s := range in.CloneSections() {
		out = append(out, formmodel.MergedSection{ID: s.ID, Title: s.Title, Items: s.Items})
	}
	return out
}

// definitionOf finds an item that is no longer laid out: first in the frozen
// layout, then among the template's base items (removed or not), then among
// the building's custom items.
func definitionOf(in models.Inspection, t models.FormTemplate, c models.TemplateCustomization, itemID string) (models.ChecklistItemDefinition, bool) {
	if _, it, ok := in.Item(itemID); ok {
		return it, true
	}
	for _, s := range t.Sections {
		for _, it := range s.Items {
			if it.ID == itemID {
				return it, true
			}
		}
	}
	for _, items := range c.CustomItems {
		for _, it := range items {
			if it.ID == itemID {
				return it, true
			}
		}
	}
	return models.ChecklistItemDefinition{}, false
}

// FormatAnswer renders a value the way the item's widget labels it.
func FormatAnswer(it models.ChecklistItemDefinition, v models.Value) string {
	switch v.Kind {
	case models.KindNull:
		return unanswered
	case models.KindBool:
		return boolLabel(it.InputType, v.Bool)
	case models.KindNumber:
		n := strconv.FormatFloat(v.Number, 'f', -1, 64)
		if it.Unit != "" {
			return n + " " + it.Unit
		}
		return n
	case models.KindText:
		if strings.TrimSpace(v.Text) == "" {
			return unanswered
		}
		return v.Text
	case models.KindToggle:
		var parts []string
		if v.Toggle.Status != nil {
			parts = append(parts, boolLabel(models.InputOnOff, *v.Toggle.Status))
		}
		if v.Toggle.Reading != "" {
			reading := v.Toggle.Reading
			if it.Unit != "" {
				reading += " " + it.Unit
			}
			parts = append(parts, reading)
		}
		if len(parts) == 0 {
			return unanswered
		}
		return strings.Join(parts, " · ")
	case models.KindMaintenance:
		label := unanswered
		if v.Maintenance.Status != nil && *v.Maintenance.Status != "" {
			label = *v.Maintenance.Status
		}
		if v.Maintenance.Issue {
			label += " (needs maintenance)"
		}
		return label
	}
	return unanswered
}

func boolLabel(t models.InputType, b bool) string {
	labels := map[models.InputType][2]string{
		models.InputPassFail:   {"Fail", "Pass"},
		models.InputOKIssue:    {"Issue", "OK"},
		models.InputOnOff:      {"Off", "On"},
		models.InputOpenClosed: {"Closed", "Open"},
	}
	l, ok := labels[t]
	if !ok {
		l = [2]string{"No", "Yes"}
	}
	if b {
		return l[1]
	}
	return l[0]
}
