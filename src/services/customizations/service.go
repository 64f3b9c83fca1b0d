package customizations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/store"
	"Backend-Inspectrack/src/utils"
)

// RemovalTTL bounds how long a requested removal waits for confirmation.
const RemovalTTL = 5 * time.Minute

var (
	ErrInvalidCustomization = errors.New("invalid customization")
	ErrRemovalNotPending    = errors.New("no pending removal for this token")
)

// UpsertRequest is the body of PUT /template-customizations/:formId.
type UpsertRequest struct {
	CustomItems  map[string][]models.ChecklistItemDefinition `json:"customItems"`
	RemovedItems map[string][]string                         `json:"removedItems"`
}

// RemovalRequest optionally pins the section when the same item id appears in several.
type RemovalRequest struct {
	SectionID string `json:"sectionId"`
}

// RemovalTicket is returned by the first step of a removal and must be
// presented to confirm it.
type RemovalTicket struct {
	Token     string    `json:"token"`
	SectionID string    `json:"sectionId"`
	ItemID    string    `json:"itemId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// View is a template as the building sees it.
type View struct {
	FormID      string                    `json:"formId"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Sections    []formmodel.MergedSection `json:"sections"`
	ItemsCount  int                       `json:"itemsCount"`
	LastUpdated *time.Time                `json:"lastUpdated,omitempty"`
}

type pendingRemoval struct {
	BuildingID string `json:"buildingId"`
	FormID     string `json:"formId"`
	SectionID  string `json:"sectionId"`
	ItemID     string `json:"itemId"`
}

func (p pendingRemoval) matches(sess models.Session, formID, itemID string) bool {
	return p.BuildingID == sess.BuildingID && p.FormID == formID && p.ItemID == itemID
}

type Repository interface {
	store.CustomizationStore
	store.DraftStore
}

type Service struct {
	store    Repository
	catalog  *catalog.Catalog
	pending  utils.Ephemeral
	now      func() time.Time
	newToken func() string
}

func NewService(s Repository, cat *catalog.Catalog, pending utils.Ephemeral) *Service {
	return &Service{store: s, catalog: cat, pending: pending, now: time.Now, newToken: uuid.NewString}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) load(ctx context.Context, sess models.Session, formID string) (models.FormTemplate, models.TemplateCustomization, error) {
	t, err := s.catalog.Get(formID)
	if err != nil {
		return models.FormTemplate{}, models.TemplateCustomization{}, err
	}
	c, err := store.CustomizationOrEmpty(ctx, s.store, sess, formID)
	if err != nil {
		return models.FormTemplate{}, models.TemplateCustomization{}, err
	}
	return t, c, nil
}

// Get returns the stored customization, empty when none exists.
func (s *Service) Get(ctx context.Context, sess models.Session, formID string) (models.TemplateCustomization, error) {
	_, c, err := s.load(ctx, sess, formID)
	return c, err
}

// View merges the building's customization into the template.
func (s *Service) View(ctx context.Context, sess models.Session, formID string) (View, error) {
	t, c, err := s.load(ctx, sess, formID)
	if err != nil {
		return View{}, err
	}
	sections := formmodel.Merge(t, c)
	v := View{
		FormID:      t.ID,
		Name:        t.Name,
		Description: t.Description,
		Sections:    sections,
		ItemsCount:  formmodel.CountItems(sections),
	}
	if !c.LastUpdated.IsZero() {
		lu := c.LastUpdated
		v.LastUpdated = &lu
	}
	return v, nil
}

// Upsert replaces the customization wholesale. Last write wins. A custom item
// may take over the id of a base item removed in the same section; any draft
// answer left over from the base item is then discarded.
func (s *Service) Upsert(ctx context.Context, sess models.Session, formID string, req UpsertRequest) (models.TemplateCustomization, error) {
	t, prev, err := s.load(ctx, sess, formID)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	c := models.NewCustomization(sess.BuildingID, formID)
	for sectionID, ids := range req.RemovedItems {
		if _, ok := t.Section(sectionID); !ok {
			return models.TemplateCustomization{}, fmt.Errorf("%w: unknown section %q", ErrInvalidCustomization, sectionID)
		}
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" && !c.IsRemoved(sectionID, id) {
				c.RemovedItemIDs[sectionID] = append(c.RemovedItemIDs[sectionID], id)
			}
		}
	}

	var reused []string
	for sectionID, items := range req.CustomItems {
		sec, ok := t.Section(sectionID)
		if !ok {
			return models.TemplateCustomization{}, fmt.Errorf("%w: unknown section %q", ErrInvalidCustomization, sectionID)
		}
		seen := map[string]bool{}
		for _, base := range sec.Items {
			if !c.IsRemoved(sectionID, base.ID) {
				seen[base.ID] = true
			}
		}
		for _, it := range items {
			it.Label = strings.TrimSpace(it.Label)
			switch {
			case it.ID == "":
				return models.TemplateCustomization{}, fmt.Errorf("%w: custom item without id in %q", ErrInvalidCustomization, sectionID)
			case it.Label == "":
				return models.TemplateCustomization{}, fmt.Errorf("%w: item %q has no label", ErrInvalidCustomization, it.ID)
			case !it.InputType.Valid():
				return models.TemplateCustomization{}, fmt.Errorf("%w: item %q has input type %q", ErrInvalidCustomization, it.ID, it.InputType)
			case seen[it.ID]:
				return models.TemplateCustomization{}, fmt.Errorf("%w: duplicate item id %q in %q", ErrInvalidCustomization, it.ID, sectionID)
			}
			seen[it.ID] = true
			if c.IsRemoved(sectionID, it.ID) && !isCustom(prev, sectionID, it.ID) {
				reused = append(reused, it.ID)
			}
			it.IsCustom = true
			c.CustomItems[sectionID] = append(c.CustomItems[sectionID], it.Clone())
		}
	}
	c.LastUpdated = s.now().UTC()
	saved, err := s.store.UpsertCustomization(ctx, sess, c)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	if err := s.discardAnswers(ctx, sess, formID, reused); err != nil {
		log.Printf("[customizations] saved form=%s building=%s but draft cleanup failed: %v", formID, sess.BuildingID, err)
	}
	return saved, nil
}

func isCustom(c models.TemplateCustomization, sectionID, itemID string) bool {
	for _, it := range c.CustomItems[sectionID] {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// discardAnswers drops the given items from the building's draft, if any.
func (s *Service) discardAnswers(ctx context.Context, sess models.Session, formID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	d, err := s.store.GetDraft(ctx, sess, formID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	col := formmodel.NewCollector(d.Responses)
	for _, id := range itemIDs {
		col.Discard(id)
	}
	if len(col.Responses()) == len(d.Responses) {
		return nil
	}
	d.Responses = col.Responses()
	d.UpdatedAt = s.now().UTC()
	_, err = s.store.UpsertDraft(ctx, sess, d)
	return err
}

// Reset restores the pristine template and drops draft answers for items
// that are no longer visible.
func (s *Service) Reset(ctx context.Context, sess models.Session, formID string) error {
	t, c, err := s.load(ctx, sess, formID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCustomization(ctx, sess, formID); err != nil {
		return err
	}

	d, err := s.store.GetDraft(ctx, sess, formID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	fs := formmodel.NewSession(t, c, d.Responses).WithClock(s.now)
	fs.Reset()
	if len(fs.Collector().Responses()) == len(d.Responses) {
		return nil
	}
	d.Responses = fs.Collector().Responses()
	d.UpdatedAt = s.now().UTC()
	_, err = s.store.UpsertDraft(ctx, sess, d)
	return err
}

// AddItem appends a custom item and persists the customization.
func (s *Service) AddItem(ctx context.Context, sess models.Session, formID string, in formmodel.NewItem) (models.ChecklistItemDefinition, error) {
	t, c, err := s.load(ctx, sess, formID)
	if err != nil {
		return models.ChecklistItemDefinition{}, err
	}
	fs := formmodel.NewSession(t, c, nil).WithClock(s.now)
	item, err := fs.AddItem(in)
	if err != nil {
		return models.ChecklistItemDefinition{}, err
	}
	if _, err := s.store.UpsertCustomization(ctx, sess, fs.Customization()); err != nil {
		return models.ChecklistItemDefinition{}, err
	}
	log.Printf("[customizations] added item=%s section=%s form=%s building=%s", item.ID, in.SectionID, formID, sess.BuildingID)
	return item, nil
}

// RequestRemoval is the first step of removing an item. Nothing changes
// until ConfirmRemoval is called with the returned token.
func (s *Service) RequestRemoval(ctx context.Context, sess models.Session, formID, itemID string, req RemovalRequest) (RemovalTicket, error) {
	t, c, err := s.load(ctx, sess, formID)
	if err != nil {
		return RemovalTicket{}, err
	}
	sectionID := req.SectionID
	if sectionID == "" {
		sectionID = sectionOf(formmodel.Merge(t, c), itemID)
	}
	fs := formmodel.NewSession(t, c, nil)
	if err := fs.RequestRemoval(sectionID, itemID); err != nil {
		return RemovalTicket{}, err
	}

	p := pendingRemoval{BuildingID: sess.BuildingID, FormID: formID, SectionID: sectionID, ItemID: itemID}
	b, err := json.Marshal(p)
	if err != nil {
		return RemovalTicket{}, err
	}
	token := s.newToken()
	if err := s.pending.Set(ctx, removalKey(token), string(b), RemovalTTL); err != nil {
		return RemovalTicket{}, err
	}
	return RemovalTicket{Token: token, SectionID: sectionID, ItemID: itemID, ExpiresAt: s.now().UTC().Add(RemovalTTL)}, nil
}

// CancelRemoval forgets a pending removal. Unknown or expired tokens are
// ignored, but a live token only cancels the removal it was issued for.
func (s *Service) CancelRemoval(ctx context.Context, sess models.Session, formID, itemID, token string) error {
	p, ok, err := s.pendingFor(ctx, token)
	if err != nil || !ok {
		return err
	}
	if !p.matches(sess, formID, itemID) {
		return ErrRemovalNotPending
	}
	return s.pending.Del(ctx, removalKey(token))
}

// ConfirmRemoval applies a pending removal: custom items are deleted, base
// items are recorded as removed. The item's draft answer is discarded. The
// token is consumed atomically, so two confirmations cannot both apply.
func (s *Service) ConfirmRemoval(ctx context.Context, sess models.Session, formID, itemID, token string) (models.TemplateCustomization, error) {
	p, ok, err := s.pendingFor(ctx, token)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	if !ok || !p.matches(sess, formID, itemID) {
		return models.TemplateCustomization{}, ErrRemovalNotPending
	}

	t, c, err := s.load(ctx, sess, formID)
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	d, err := s.store.GetDraft(ctx, sess, formID)
	hasDraft := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.TemplateCustomization{}, err
	}

	fs := formmodel.NewSession(t, c, d.Responses).WithClock(s.now)
	if err := fs.RequestRemoval(p.SectionID, p.ItemID); err != nil {
		return models.TemplateCustomization{}, err
	}
	if _, err := fs.ConfirmRemoval(); err != nil {
		return models.TemplateCustomization{}, err
	}

	_, taken, err := s.pending.Take(ctx, removalKey(token))
	if err != nil {
		return models.TemplateCustomization{}, err
	}
	if !taken {
		return models.TemplateCustomization{}, ErrRemovalNotPending
	}
	saved, err := s.store.UpsertCustomization(ctx, sess, fs.Customization())
	if err != nil {
		return models.TemplateCustomization{}, err
	}

	if hasDraft {
		if _, answered := d.Responses[p.ItemID]; answered {
			d.Responses = fs.Collector().Responses()
			d.UpdatedAt = s.now().UTC()
			if _, err := s.store.UpsertDraft(ctx, sess, d); err != nil {
				log.Printf("[customizations] removed item=%s but draft update failed: %v", p.ItemID, err)
			}
		}
	}
	log.Printf("[customizations] removed item=%s section=%s form=%s building=%s", p.ItemID, p.SectionID, formID, sess.BuildingID)
	return saved, nil
}

func (s *Service) pendingFor(ctx context.Context, token string) (pendingRemoval, bool, error) {
	raw, ok, err := s.pending.Get(ctx, removalKey(token))
	if err != nil || !ok {
		return pendingRemoval{}, false, err
	}
	var p pendingRemoval
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return pendingRemoval{}, false, nil
	}
	return p, true, nil
}

func removalKey(token string) string {
	return fmt.Sprintf("removal:%s", token)
}

func sectionOf(sections []formmodel.MergedSection, itemID string) string {
	for _, s := range sections {
		for _, it := range s.Items {
			if it.ID == itemID {
				return s.ID
			}
		}
	}
	return ""
}
