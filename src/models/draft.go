package models

import "time"

// Draft is an unsubmitted answer set, overwritten on every save.
type Draft struct {
	BuildingID     string                               `bson:"buildingId" json:"buildingId"`
	FormID         string                               `bson:"formId" json:"formId"`
	UserID         string                               `bson:"userId,omitempty" json:"userId,omitempty"`
	Responses      FormResponse                         `bson:"responses" json:"responses"`
	CustomSections map[string][]ChecklistItemDefinition `bson:"customSections,omitempty" json:"customSections,omitempty"`
	RemovedItems   map[string][]string                  `bson:"removedItems,omitempty" json:"removedItems,omitempty"`
	UpdatedAt      time.Time                            `bson:"updatedAt" json:"updatedAt"`
}
