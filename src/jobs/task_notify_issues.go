package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"Backend-Inspectrack/src/services/notify"
)

// HandleNotifyIssuesOpened e-mails every recipient a summary of the issues
// opened by one inspection.
func HandleNotifyIssuesOpened(sender notify.MailSender, recipients []string, inspectionURL func(id string) string) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p NotifyIssuesOpenedPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TypeNotifyIssuesOpened, err, asynq.SkipRetry)
		}
		if len(p.Issues) == 0 || len(recipients) == 0 {
			log.Printf("[notify] inspection=%s nothing to send (issues=%d recipients=%d)", p.InspectionID, len(p.Issues), len(recipients))
			return nil
		}

		lines := make([]notify.IssueLine, 0, len(p.Issues))
		for _, is := range p.Issues {
			lines = append(lines, notify.IssueLine{
				Title:       is.Title,
				Description: is.Description,
				Priority:    is.Priority,
				Location:    is.Location,
			})
		}
		html, err := notify.RenderIssuesOpenedHTML(notify.IssuesOpenedEmailData{
			BuildingID:     p.BuildingID,
			FormName:       p.FormName,
			CompletedAt:    p.CompletedAt,
			InspectionLink: inspectionURL(p.InspectionID),
			Issues:         lines,
		})
		if err != nil {
			return fmt.Errorf("render email: %w", err)
		}

		subject := notify.IssuesOpenedSubject(p.FormName, len(p.Issues))
		var failed int
		for _, to := range recipients {
			if err := sender.Send(to, subject, html); err != nil {
				log.Printf("[notify] send mail failed to %s: %v", to, err)
				failed++
			}
		}
		if failed == len(recipients) {
			return fmt.Errorf("notify inspection %s: all %d deliveries failed", p.InspectionID, failed)
		}

		log.Printf("[notify] inspection=%s issues=%d sent=%d", p.InspectionID, len(p.Issues), len(recipients)-failed)
		return nil
	}
}
