package formmodel

import "Backend-Inspectrack/src/models"

// MergedSection is a template section after the building's customization is applied.
type MergedSection struct {
	ID    string                           `json:"id"`
	Title string                           `json:"title"`
	Items []models.ChecklistItemDefinition `json:"items"`
}

// Merge applies a customization to a template. Visible items of a section are the
// template items minus the removed ids, followed by custom items in insertion order.
// Sections left with no items are dropped. Neither argument is modified.
func Merge(t models.FormTemplate, c models.TemplateCustomization) []MergedSection {
	out := make([]MergedSection, 0, len(t.Sections))
	for _, s := range t.Sections {
		items := make([]models.ChecklistItemDefinition, 0, len(s.Items)+len(c.CustomItems[s.ID]))
		for _, it := range s.Items {
			if c.IsRemoved(s.ID, it.ID) {
				continue
			}
			items = append(items, it.Clone())
		}
		for _, it := range c.CustomItems[s.ID] {
			cp := it.Clone()
			cp.IsCustom = true
			items = append(items, cp)
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, MergedSection{ID: s.ID, Title: s.Title, Items: items})
	}
	return out
}

// CountItems returns the number of visible items across sections.
func CountItems(sections []MergedSection) int {
	n := 0
	for _, s := range sections {
		n += len(s.Items)
	}
	return n
}

func findItem(sections []MergedSection, sectionID, itemID string) (models.ChecklistItemDefinition, bool) {
	for _, s := range sections {
		if s.ID != sectionID {
			continue
		}
		for _, it := range s.Items {
			if it.ID == itemID {
				return it, true
			}
		}
	}
	return models.ChecklistItemDefinition{}, false
}

func visibleIDs(sections []MergedSection) map[string]bool {
	ids := map[string]bool{}
	for _, s := range sections {
		for _, it := range s.Items {
			ids[it.ID] = true
		}
	}
	return ids
}
