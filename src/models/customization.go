package models

import "time"

// TemplateCustomization is the per-building delta applied on top of a catalog template.
// Base items are never deleted from the catalog; they are listed in RemovedItemIDs instead.
type TemplateCustomization struct {
	BuildingID     string                               `bson:"buildingId" json:"buildingId"`
	FormID         string                               `bson:"formId" json:"formId"`
	CustomItems    map[string][]ChecklistItemDefinition `bson:"customItems" json:"customItems"`
	RemovedItemIDs map[string][]string                  `bson:"removedItems" json:"removedItems"`
	LastUpdated    time.Time                            `bson:"lastUpdated" json:"lastUpdated"`
}

// NewCustomization returns an empty customization for the pair.
func NewCustomization(buildingID, formID string) TemplateCustomization {
	return TemplateCustomization{
		BuildingID:     buildingID,
		FormID:         formID,
		CustomItems:    map[string][]ChecklistItemDefinition{},
		RemovedItemIDs: map[string][]string{},
	}
}

func (c TemplateCustomization) IsEmpty() bool {
	for _, items := range c.CustomItems {
		if len(items) > 0 {
			return false
		}
	}
	for _, ids := range c.RemovedItemIDs {
		if len(ids) > 0 {
			return false
		}
	}
	return true
}

// IsRemoved reports whether a base item has been hidden in the section.
func (c TemplateCustomization) IsRemoved(sectionID, itemID string) bool {
	for _, id := range c.RemovedItemIDs[sectionID] {
		if id == itemID {
			return true
		}
	}
	return false
}

// Clone deep-copies the maps so the copy can be edited independently.
func (c TemplateCustomization) Clone() TemplateCustomization {
	out := c
	out.CustomItems = make(map[string][]ChecklistItemDefinition, len(c.CustomItems))
	for sec, items := range c.CustomItems {
		cp := make([]ChecklistItemDefinition, len(items))
		for i, it := range items {
			cp[i] = it.Clone()
		}
		out.CustomItems[sec] = cp
	}
	out.RemovedItemIDs = make(map[string][]string, len(c.RemovedItemIDs))
	for sec, ids := range c.RemovedItemIDs {
		out.RemovedItemIDs[sec] = append([]string(nil), ids...)
	}
	return out
}
