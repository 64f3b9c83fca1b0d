package formmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"Backend-Inspectrack/src/models"
)

const (
	PlaceholderLocation = "To be determined"
	DefaultPriority     = models.PriorityMedium
)

// Submission is what a completed form turns into.
type Submission struct {
	Inspection models.Inspection `json:"inspection"`
	Issues     []models.Issue    `json:"issues"`
}

// BuildInput carries the identity and clock for a submission.
type BuildInput struct {
	BuildingID string
	UserID     string
	Now        time.Time
	NewID      func() string
}

// Build scans the visible items and materializes one Issue per flagged answer
// plus the Inspection record. Only answers for visible items are kept, and the
// visible layout is frozen on the inspection so later customization cannot
// change how it reads.
func Build(t models.FormTemplate, sections []MergedSection, responses models.FormResponse, in BuildInput) Submission {
	newID := in.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	inspectionID := newID()
	kept := models.FormResponse{}
	issues := []models.Issue{}
	layout := make([]models.InspectionSection, 0, len(sections))

	for _, s := range sections {
		frozen := models.InspectionSection{ID: s.ID, Title: s.Title, Items: make([]models.ChecklistItemDefinition, 0, len(s.Items))}
		for _, it := range s.Items {
			frozen.Items = append(frozen.Items, it.Clone())
			r, answered := responses[it.ID]
			if answered {
				kept[it.ID] = r
			}
			if !IsIssue(it.InputType, r.Value) {
				continue
			}
			issues = append(issues, models.Issue{
				ID:           newID(),
				BuildingID:   in.BuildingID,
				InspectionID: inspectionID,
				ItemID:       it.ID,
				Title:        fmt.Sprintf("%s: %s", s.Title, it.Label),
				Description:  issueDescription(r.Note, t.Name),
				Location:     PlaceholderLocation,
				Priority:     DefaultPriority,
				Status:       models.IssueOpen,
				FormName:     t.Name,
				OpenedAt:     now,
			})
		}
		layout = append(layout, frozen)
	}

	status := models.InspectionCompleted
	if len(issues) > 0 {
		status = models.InspectionIssues
	}
	return Submission{
		Inspection: models.Inspection{
			ID:          inspectionID,
			BuildingID:  in.BuildingID,
			UserID:      in.UserID,
			FormID:      t.ID,
			FormName:    t.Name,
			CompletedAt: now,
			Status:      status,
			ItemsCount:  CountItems(sections),
			IssuesCount: len(issues),
			Responses:   kept,
			Sections:    layout,
		},
		Issues: issues,
	}
}

func issueDescription(note, formName string) string {
	if n := strings.TrimSpace(note); n != "" {
		return n
	}
	return fmt.Sprintf("Issue reported during %s inspection", formName)
}
