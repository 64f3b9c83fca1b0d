package issues

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/store"
)

var (
	ErrInvalidStatus   = errors.New("status must be open or resolved")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrTitleRequired   = errors.New("title is required")
)

// CreateIssueRequest is the body of POST /issues.
type CreateIssueRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Priority     string `json:"priority"`
	FormName     string `json:"formName"`
	InspectionID string `json:"inspectionId,omitempty"`
	ItemID       string `json:"itemId,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type Service struct {
	store store.IssueStore
	now   func() time.Time
	newID func() string
}

func NewService(s store.IssueStore) *Service {
	return &Service{store: s, now: time.Now, newID: uuid.NewString}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ParseStatus accepts "" (no filter), "open" or "resolved".
func ParseStatus(raw string) (models.IssueStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return "", nil
	}
	st := models.IssueStatus(raw)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return st, nil
}

func (s *Service) List(ctx context.Context, sess models.Session, status string) ([]models.Issue, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.store.ListIssues(ctx, sess, st)
}

func (s *Service) Get(ctx context.Context, sess models.Session, id string) (models.Issue, error) {
	return s.store.GetIssue(ctx, sess, id)
}

// Create records a manually reported issue. It always starts open.
func (s *Service) Create(ctx context.Context, sess models.Session, req CreateIssueRequest) (models.Issue, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Issue{}, ErrTitleRequired
	}
	priority := formmodel.DefaultPriority
	if p := strings.ToLower(strings.TrimSpace(req.Priority)); p != "" {
		priority = models.IssuePriority(p)
		if !priority.Valid() {
			return models.Issue{}, fmt.Errorf("%w: %q", ErrInvalidPriority, req.Priority)
		}
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = formmodel.PlaceholderLocation
	}

	is := models.Issue{
		ID:           s.newID(),
		BuildingID:   sess.BuildingID,
		InspectionID: req.InspectionID,
		ItemID:       req.ItemID,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Location:     location,
		Priority:     priority,
		Status:       models.IssueOpen,
		FormName:     strings.TrimSpace(req.FormName),
		OpenedAt:     s.now().UTC(),
	}
	created, err := s.store.CreateIssue(ctx, sess, is)
	if err != nil {
		return models.Issue{}, err
	}
	log.Printf("[issues] created id=%s building=%s priority=%s", created.ID, created.BuildingID, created.Priority)
	return created, nil
}

// UpdateStatus moves an issue between open and resolved. Resolving stamps
// closedAt, reopening clears it.
func (s *Service) UpdateStatus(ctx context.Context, sess models.Session, id, status string) (models.Issue, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return models.Issue{}, err
	}
	if st == "" {
		return models.Issue{}, ErrInvalidStatus
	}
	return s.store.UpdateIssueStatus(ctx, sess, id, st, s.now().UTC())
}

func (s *Service) Clear(ctx context.Context, sess models.Session) (int64, error) {
	n, err := s.store.DeleteAllIssues(ctx, sess)
	if err != nil {
		return 0, err
	}
	log.Printf("[issues] cleared %d issues building=%s", n, sess.BuildingID)
	return n, nil
}
