package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/store"
)

var ErrInvalidValue = errors.New("invalid answer value")

// SaveDraftRequest is the body of PUT /drafts/:formId. The whole answer set
// is replaced.
type SaveDraftRequest struct {
	Responses      models.FormResponse                         `json:"responses"`
	CustomSections map[string][]models.ChecklistItemDefinition `json:"customSections,omitempty"`
	RemovedItems   map[string][]string                         `json:"removedItems,omitempty"`
}

// AnswerPatch updates one item. Absent fields are left alone; a present
// "value": null clears the answer.
type AnswerPatch struct {
	Value          json.RawMessage `json:"value,omitempty" swaggertype:"object"`
	Note           *string         `json:"note,omitempty"`
	ActionBy       *string         `json:"actionBy,omitempty"`
	CompletionDate *string         `json:"completionDate,omitempty"`
}

type Progress struct {
	FormID     string `json:"formId"`
	Progress   int    `json:"progress"`
	IssueCount int    `json:"issueCount"`
	ItemsCount int    `json:"itemsCount"`
}

type Repository interface {
	store.DraftStore
	store.CustomizationStore
}

type Service struct {
	store   Repository
	catalog *catalog.Catalog
	now     func() time.Time
}

func NewService(s Repository, cat *catalog.Catalog) *Service {
	return &Service{store: s, catalog: cat, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the stored draft, or an empty one when nothing was saved yet.
func (s *Service) Get(ctx context.Context, sess models.Session, formID string) (models.Draft, error) {
	if _, err := s.catalog.Get(formID); err != nil {
		return models.Draft{}, err
	}
	d, err := s.store.GetDraft(ctx, sess, formID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Draft{BuildingID: sess.BuildingID, FormID: formID, Responses: models.FormResponse{}}, nil
	}
	return d, err
}

func (s *Service) Save(ctx context.Context, sess models.Session, formID string, req SaveDraftRequest) (models.Draft, error) {
	if _, err := s.catalog.Get(formID); err != nil {
		return models.Draft{}, err
	}
	collector := formmodel.NewCollector(nil)
	for id, r := range req.Responses {
		collector.Apply(id, r)
	}
	return s.store.UpsertDraft(ctx, sess, models.Draft{
		FormID:         formID,
		UserID:         sess.UserID,
		Responses:      collector.Responses(),
		CustomSections: req.CustomSections,
		RemovedItems:   req.RemovedItems,
		UpdatedAt:      s.now().UTC(),
	})
}

// UpdateAnswer applies a single-item edit to the stored draft, creating the
// draft when needed.
func (s *Service) UpdateAnswer(ctx context.Context, sess models.Session, formID, itemID string, p AnswerPatch) (models.Draft, error) {
	d, err := s.Get(ctx, sess, formID)
	if err != nil {
		return models.Draft{}, err
	}
	c := formmodel.NewCollector(d.Responses)
	if len(p.Value) > 0 {
		var v models.Value
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return models.Draft{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		c.SetValue(itemID, v)
	}
	if p.Note != nil {
		c.SetNote(itemID, *p.Note)
	}
	if p.ActionBy != nil {
		c.SetActionBy(itemID, *p.ActionBy)
	}
	if p.CompletionDate != nil {
		c.SetCompletionDate(itemID, *p.CompletionDate)
	}
	d.Responses = c.Responses()
	d.UserID = sess.UserID
	d.UpdatedAt = s.now().UTC()
	return s.store.UpsertDraft(ctx, sess, d)
}

// Delete is idempotent.
func (s *Service) Delete(ctx context.Context, sess models.Session, formID string) error {
	return s.store.DeleteDraft(ctx, sess, formID)
}

// Progress evaluates the stored draft against the building's current form.
func (s *Service) Progress(ctx context.Context, sess models.Session, formID string) (Progress, error) {
	t, err := s.catalog.Get(formID)
	if err != nil {
		return Progress{}, err
	}
	c, err := store.CustomizationOrEmpty(ctx, s.store, sess, formID)
	if err != nil {
		return Progress{}, err
	}
	d, err := s.Get(ctx, sess, formID)
	if err != nil {
		return Progress{}, err
	}
	fs := formmodel.NewSession(t, c, d.Responses)
	return Progress{
		FormID:     formID,
		Progress:   fs.Progress(),
		IssueCount: fs.IssueCount(),
		ItemsCount: formmodel.CountItems(fs.Sections()),
	}, nil
}
