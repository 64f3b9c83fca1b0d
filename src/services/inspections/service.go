package inspections

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"Backend-Inspectrack/src/jobs"
	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/store"
)

var (
	ErrInvalidStatus = errors.New("status must be completed or issues")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SubmitRequest is the body of POST /forms/:formId/submit. When Responses is
// omitted the stored draft is submitted.
type SubmitRequest struct {
	Responses models.FormResponse `json:"responses,omitempty"`
}

// CreateInspectionRequest is the raw contract form of POST /inspections.
type CreateInspectionRequest struct {
	FormID      string              `json:"formId" validate:"required"`
	FormName    string              `json:"formName" validate:"required"`
	Status      string              `json:"status" validate:"required"`
	ItemsCount  int                 `json:"itemsCount" validate:"gte=0"`
	IssuesCount int                 `json:"issuesCount,omitempty" validate:"gte=0"`
	Responses   models.FormResponse `json:"responses"`

	// CompletedAt is RFC 3339; the server clock is used when it is absent.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Repository interface {
	store.InspectionStore
	store.IssueStore
	store.DraftStore
	store.CustomizationStore
}

type Service struct {
	store   Repository
	catalog *catalog.Catalog
	queue   Enqueuer
	now     func() time.Time
	newID   func() string
}

// NewService accepts a nil queue; notifications are then skipped.
func NewService(s Repository, cat *catalog.Catalog, queue Enqueuer) *Service {
	return &Service{store: s, catalog: cat, queue: queue, now: time.Now, newID: uuid.NewString}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ParseDate parses the ?date= filter. An empty string means no filter.
func ParseDate(raw string) (models.InspectionFilter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.InspectionFilter{}, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return models.InspectionFilter{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return models.InspectionFilter{Date: d}, nil
}

// Submit turns the building's answers for a form into an inspection plus one
// open issue per flagged item. The draft is deleted only after everything
// was stored.
func (s *Service) Submit(ctx context.Context, sess models.Session, formID string, req SubmitRequest) (formmodel.Submission, error) {
	t, err := s.catalog.Get(formID)
	if err != nil {
		return formmodel.Submission{}, err
	}
	c, err := store.CustomizationOrEmpty(ctx, s.store, sess, formID)
	if err != nil {
		return formmodel.Submission{}, err
	}

	responses := req.Responses
	if responses == nil {
		d, err := s.store.GetDraft(ctx, sess, formID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return formmodel.Submission{}, err
		}
		responses = d.Responses
	}

	fs := formmodel.NewSession(t, c, responses)
	sub := formmodel.Build(t, fs.Sections(), fs.Collector().Responses(), formmodel.BuildInput{
		BuildingID: sess.BuildingID,
		UserID:     sess.UserID,
		Now:        s.now(),
		NewID:      s.newID,
	})

	if _, err := s.store.CreateInspection(ctx, sess, sub.Inspection); err != nil {
		return formmodel.Submission{}, fmt.Errorf("save inspection: %w", err)
	}
	for _, is := range sub.Issues {
		if _, err := s.store.CreateIssue(ctx, sess, is); err != nil {
			return formmodel.Submission{}, fmt.Errorf("save issue %s: %w", is.ItemID, err)
		}
	}
	if err := s.store.DeleteDraft(ctx, sess, formID); err != nil {
		log.Printf("[submit] inspection=%s saved but draft delete failed: %v", sub.Inspection.ID, err)
	}

	log.Printf("[submit] inspection=%s form=%s building=%s status=%s issues=%d",
		sub.Inspection.ID, formID, sess.BuildingID, sub.Inspection.Status, len(sub.Issues))

	if len(sub.Issues) > 0 {
		s.notify(sub)
	}
	return sub, nil
}

func (s *Service) notify(sub formmodel.Submission) {
	if s.queue == nil {
		log.Printf("[submit] no task queue; skipping issue notification for inspection=%s", sub.Inspection.ID)
		return
	}
	task, err := jobs.NewNotifyIssuesOpenedTask(sub.Inspection, sub.Issues)
	if err != nil {
		log.Printf("[submit] build notify task: %v", err)
		return
	}
	if _, err := s.queue.Enqueue(task, asynq.TaskID(jobs.NotifyIssuesTaskID(sub.Inspection.ID)), asynq.MaxRetry(5)); err != nil {
		log.Printf("[submit] enqueue notify task inspection=%s: %v", sub.Inspection.ID, err)
	}
}

func (s *Service) List(ctx context.Context, sess models.Session, date string) ([]models.Inspection, error) {
	f, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.ListInspections(ctx, sess, f)
}

func (s *Service) Get(ctx context.Context, sess models.Session, id string) (models.Inspection, error) {
	return s.store.GetInspection(ctx, sess, id)
}

// Create stores an inspection exactly as described by the caller.
func (s *Service) Create(ctx context.Context, sess models.Session, req CreateInspectionRequest) (models.Inspection, error) {
	status := models.InspectionStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return models.Inspection{}, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	responses := req.Responses
	if responses == nil {
		responses = models.FormResponse{}
	}
	completedAt := s.now()
	if req.CompletedAt != nil && !req.CompletedAt.IsZero() {
		completedAt = *req.CompletedAt
	}
	in := models.Inspection{
		ID:          s.newID(),
		BuildingID:  sess.BuildingID,
		UserID:      sess.UserID,
		FormID:      req.FormID,
		FormName:    req.FormName,
		CompletedAt: completedAt.UTC(),
		Status:      status,
		ItemsCount:  req.ItemsCount,
		IssuesCount: req.IssuesCount,
		Responses:   responses,
	}
	return s.store.CreateInspection(ctx, sess, in)
}

func (s *Service) DeleteAll(ctx context.Context, sess models.Session) (int64, error) {
	n, err := s.store.DeleteAllInspections(ctx, sess)
	if err != nil {
		return 0, err
	}
	log.Printf("[inspections] deleted %d inspections building=%s", n, sess.BuildingID)
	return n, nil
}
