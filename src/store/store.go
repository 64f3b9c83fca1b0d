// Package store persists drafts, customizations, inspections, issues and users.
// Every call is scoped to the building of the session it receives; records
// belonging to other buildings are invisible.
package store

import (
	"context"
	"errors"
	"time"

	"Backend-Inspectrack/src/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	ErrNoSession = errors.New("missing building or user in session")
)

type DraftStore interface {
	GetDraft(ctx context.Context, sess models.Session, formID string) (models.Draft, error)
	UpsertDraft(ctx context.Context, sess models.Session, d models.Draft) (models.Draft, error)
	DeleteDraft(ctx context.Context, sess models.Session, formID string) error
}

type InspectionStore interface {
	ListInspections(ctx context.Context, sess models.Session, f models.InspectionFilter) ([]models.Inspection, error)
	GetInspection(ctx context.Context, sess models.Session, id string) (models.Inspection, error)
	CreateInspection(ctx context.Context, sess models.Session, in models.Inspection) (models.Inspection, error)
	DeleteAllInspections(ctx context.Context, sess models.Session) (int64, error)
}

type IssueStore interface {
	// ListIssues returns every issue when status is empty.
	ListIssues(ctx context.Context, sess models.Session, status models.IssueStatus) ([]models.Issue, error)
	GetIssue(ctx context.Context, sess models.Session, id string) (models.Issue, error)
	CreateIssue(ctx context.Context, sess models.Session, is models.Issue) (models.Issue, error)
	UpdateIssueStatus(ctx context.Context, sess models.Session, id string, status models.IssueStatus, now time.Time) (models.Issue, error)
	DeleteAllIssues(ctx context.Context, sess models.Session) (int64, error)
}

type CustomizationStore interface {
	GetCustomization(ctx context.Context, sess models.Session, formID string) (models.TemplateCustomization, error)
	UpsertCustomization(ctx context.Context, sess models.Session, c models.TemplateCustomization) (models.TemplateCustomization, error)
	DeleteCustomization(ctx context.Context, sess models.Session, formID string) error
}

// UserStore is not building scoped; it backs the login flow.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

type Store interface {
	DraftStore
	InspectionStore
	IssueStore
	CustomizationStore
	UserStore
	Close(ctx context.Context) error
}

func checkSession(sess models.Session) error {
	if sess.BuildingID == "" {
		return ErrNoSession
	}
	return nil
}

// CustomizationOrEmpty treats a missing row as an empty customization.
func CustomizationOrEmpty(ctx context.Context, s CustomizationStore, sess models.Session, formID string) (models.TemplateCustomization, error) {
	c, err := s.GetCustomization(ctx, sess, formID)
	if errors.Is(err, ErrNotFound) {
		return models.NewCustomization(sess.BuildingID, formID), nil
	}
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	return c, nil
}

func normalizeCustomization(c *models.TemplateCustomization) {
	if c.CustomItems == nil {
		c.CustomItems = map[string][]models.ChecklistItemDefinition{}
	}
	if c.RemovedItemIDs == nil {
		c.RemovedItemIDs = map[string][]string{}
	}
}

func normalizeDraft(d *models.Draft) {
	if d.Responses == nil {
		d.Responses = models.FormResponse{}
	}
}
