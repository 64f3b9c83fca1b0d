package jobs

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"Backend-Inspectrack/src/models"
)

const TypeNotifyIssuesOpened = "issues:notify-opened"

type IssueSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Location    string `json:"location"`
}

type NotifyIssuesOpenedPayload struct {
	BuildingID   string         `json:"buildingId"`
	InspectionID string         `json:"inspectionId"`
	FormName     string         `json:"formName"`
	CompletedAt  time.Time      `json:"completedAt"`
	Issues       []IssueSummary `json:"issues"`
}

func NewNotifyIssuesOpenedTask(in models.Inspection, issues []models.Issue) (*asynq.Task, error) {
	payload := NotifyIssuesOpenedPayload{
		BuildingID:   in.BuildingID,
		InspectionID: in.ID,
		FormName:     strings.TrimSpace(in.FormName),
		CompletedAt:  in.CompletedAt,
		Issues:       make([]IssueSummary, 0, len(issues)),
	}
	for _, is := range issues {
		payload.Issues = append(payload.Issues, IssueSummary{
			ID:          is.ID,
			Title:       is.Title,
			Description: is.Description,
			Priority:    string(is.Priority),
			Location:    is.Location,
		})
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotifyIssuesOpened, b), nil
}

// NotifyIssuesTaskID keeps a resubmitted task for the same inspection from
// sending twice.
func NotifyIssuesTaskID(inspectionID string) string {
	return "notify-issues-" + strings.TrimSpace(inspectionID)
}
