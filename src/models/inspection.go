package models

import "time"

type InspectionStatus string

const (
	InspectionCompleted InspectionStatus = "completed"
	InspectionIssues    InspectionStatus = "issues"
)

func (s InspectionStatus) Valid() bool {
	return s == InspectionCompleted || s == InspectionIssues
}

// Inspection is the immutable record of a submitted form.
type Inspection struct {
	ID          string           `bson:"_id" json:"id"`
	BuildingID  string           `bson:"buildingId" json:"buildingId"`
	UserID      string           `bson:"userId,omitempty" json:"userId,omitempty"`
	FormID      string           `bson:"formId" json:"formId"`
	FormName    string           `bson:"formName" json:"formName"`
	CompletedAt time.Time        `bson:"completedAt" json:"completedAt"`
	Status      InspectionStatus `bson:"status" json:"status"`
	ItemsCount  int              `bson:"itemsCount" json:"itemsCount"`
	IssuesCount int              `bson:"issuesCount,omitempty" json:"issuesCount,omitempty"`
	Responses   FormResponse     `bson:"responses" json:"responses"`

	// Sections is the form as the building saw it when submitting. It is
	// empty for inspections recorded without going through a form.
	Sections []InspectionSection `bson:"sections,omitempty" json:"sections,omitempty"`
}

// InspectionSection freezes one visible section and its item definitions.
type InspectionSection struct {
	ID    string                    `bson:"id" json:"id"`
	Title string                    `bson:"title" json:"title"`
	Items []ChecklistItemDefinition `bson:"items" json:"items"`
}

// CloneSections returns a copy of the layout that shares no slices with in.
func (in Inspection) CloneSections() []InspectionSection {
	if in.Sections == nil {
		return nil
	}
	out := make([]InspectionSection, len(in.Sections))
	for i, s := range in.Sections {
		items := make([]ChecklistItemDefinition, len(s.Items))
		for j, it := range s.Items {
			items[j] = it.Clone()
		}
		out[i] = InspectionSection{ID: s.ID, Title: s.Title, Items: items}
	}
	return out
}

// Item looks up an item definition in the frozen layout.
func (in Inspection) Item(itemID string) (InspectionSection, ChecklistItemDefinition, bool) {
	for _, s := range in.Sections {
		for _, it := range s.Items {
			if it.ID == itemID {
				return s, it, true
			}
		}
	}
	return InspectionSection{}, ChecklistItemDefinition{}, false
}

// InspectionFilter narrows a listing. A zero Date lists everything.
type InspectionFilter struct {
	Date time.Time
}

// Matches reports whether completedAt falls on the filter's calendar day (UTC).
func (f InspectionFilter) Matches(in Inspection) bool {
	if f.Date.IsZero() {
		return true
	}
	y1, m1, d1 := f.Date.UTC().Date()
	y2, m2, d2 := in.CompletedAt.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayBounds returns the [start, end) UTC interval of the filter day.
func (f InspectionFilter) DayBounds() (time.Time, time.Time) {
	y, m, d := f.Date.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
