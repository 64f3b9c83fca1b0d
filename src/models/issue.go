package models

import "time"

type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

func (p IssuePriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type IssueStatus string

const (
	IssueOpen     IssueStatus = "open"
	IssueResolved IssueStatus = "resolved"
)

func (s IssueStatus) Valid() bool {
	return s == IssueOpen || s == IssueResolved
}

// Issue is a tracked deficiency. Only Status and ClosedAt change after creation.
type Issue struct {
	ID           string        `bson:"_id" json:"id"`
	BuildingID   string        `bson:"buildingId" json:"buildingId"`
	InspectionID string        `bson:"inspectionId,omitempty" json:"inspectionId,omitempty"`
	ItemID       string        `bson:"itemId,omitempty" json:"itemId,omitempty"`
	Title        string        `bson:"title" json:"title"`
	Description  string        `bson:"description" json:"description"`
	Location     string        `bson:"location" json:"location"`
	Priority     IssuePriority `bson:"priority" json:"priority"`
	Status       IssueStatus   `bson:"status" json:"status"`
	FormName     string        `bson:"formName" json:"formName"`
	OpenedAt     time.Time     `bson:"openedAt" json:"openedAt"`
	ClosedAt     *time.Time    `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
}

// WithStatus applies an open/resolved transition. Resolving stamps ClosedAt,
// reopening clears it; every other field is left untouched.
func (i Issue) WithStatus(status IssueStatus, now time.Time) Issue {
	i.Status = status
	if status == IssueResolved {
		t := now
		i.ClosedAt = &t
	} else {
		i.ClosedAt = nil
	}
	return i
}
