package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"Backend-Inspectrack/src/models"
)

type pairKey struct{ building, form string }

// Memory keeps everything in process. Used by tests and for local development.
type Memory struct {
	mu             sync.RWMutex
	drafts         map[pairKey]models.Draft
	customizations map[pairKey]models.TemplateCustomization
	inspections    map[string]models.Inspection
	issues         map[string]models.Issue
	users          map[string]models.User
}

func NewMemory() *Memory {
	return &Memory{
		drafts:         map[pairKey]models.Draft{},
		customizations: map[pairKey]models.TemplateCustomization{},
		inspections:    map[string]models.Inspection{},
		issues:         map[string]models.Issue{},
		users:          map[string]models.User{},
	}
}

func (m *Memory) Close(context.Context) error { return nil }

func cloneDraft(d models.Draft) models.Draft {
	d.Responses = d.Responses.Clone()
	c := models.TemplateCustomization{CustomItems: d.CustomSections, RemovedItemIDs: d.RemovedItems}.Clone()
	if d.CustomSections != nil {
		d.CustomSections = c.CustomItems
	}
	if d.RemovedItems != nil {
		d.RemovedItems = c.RemovedItemIDs
	}
	return d
}

func (m *Memory) GetDraft(_ context.Context, sess models.Session, formID string) (models.Draft, error) {
	if err := checkSession(sess); err != nil {
		return models.Draft{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[pairKey{sess.BuildingID, formID}]
	if !ok {
		return models.Draft{}, ErrNotFound
	}
	return cloneDraft(d), nil
}

func (m *Memory) UpsertDraft(_ context.Context, sess models.Session, d models.Draft) (models.Draft, error) {
	if err := checkSession(sess); err != nil {
		return models.Draft{}, err
	}
	d.BuildingID = sess.BuildingID
	normalizeDraft(&d)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[pairKey{d.BuildingID, d.FormID}] = cloneDraft(d)
	return cloneDraft(d), nil
}

func (m *Memory) DeleteDraft(_ context.Context, sess models.Session, formID string) error {
	if err := checkSession(sess); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, pairKey{sess.BuildingID, formID})
	return nil
}

func cloneInspection(in models.Inspection) models.Inspection {
	in.Responses = in.Responses.Clone()
	in.Sections = in.CloneSections()
	return in
}

func (m *Memory) ListInspections(_ context.Context, sess models.Session, f models.InspectionFilter) ([]models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Inspection{}
	for _, in := range m.inspections {
		if in.BuildingID == sess.BuildingID && f.Matches(in) {
			out = append(out, cloneInspection(in))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (m *Memory) GetInspection(_ context.Context, sess models.Session, id string) (models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return models.Inspection{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.inspections[id]
	if !ok || in.BuildingID != sess.BuildingID {
		return models.Inspection{}, ErrNotFound
	}
	return cloneInspection(in), nil
}

func (m *Memory) CreateInspection(_ context.Context, sess models.Session, in models.Inspection) (models.Inspection, error) {
	if err := checkSession(sess); err != nil {
		return models.Inspection{}, err
	}
	in.BuildingID = sess.BuildingID
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.inspections[in.ID]; dup {
		return models.Inspection{}, ErrDuplicate
	}
	m.inspections[in.ID] = cloneInspection(in)
	return cloneInspection(in), nil
}

func (m *Memory) DeleteAllInspections(_ context.Context, sess models.Session) (int64, error) {
	if err := checkSession(sess); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, in := range m.inspections {
		if in.BuildingID == sess.BuildingID {
			delete(m.inspections, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListIssues(_ context.Context, sess models.Session, status models.IssueStatus) ([]models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Issue{}
	for _, is := range m.issues {
		if is.BuildingID != sess.BuildingID || (status != "" && is.Status != status) {
			continue
		}
		out = append(out, is)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OpenedAt.After(out[j].OpenedAt)
	})
	return out, nil
}

func (m *Memory) GetIssue(_ context.Context, sess models.Session, id string) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	is, ok := m.issues[id]
	if !ok || is.BuildingID != sess.BuildingID {
		return models.Issue{}, ErrNotFound
	}
	return is, nil
}

func (m *Memory) CreateIssue(_ context.Context, sess models.Session, is models.Issue) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	is.BuildingID = sess.BuildingID
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.issues[is.ID]; dup {
		return models.Issue{}, ErrDuplicate
	}
	m.issues[is.ID] = is
	return is, nil
}

func (m *Memory) UpdateIssueStatus(_ context.Context, sess models.Session, id string, status models.IssueStatus, now time.Time) (models.Issue, error) {
	if err := checkSession(sess); err != nil {
		return models.Issue{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	is, ok := m.issues[id]
	if !ok || is.BuildingID != sess.BuildingID {
		return models.Issue{}, ErrNotFound
	}
	is = is.WithStatus(status, now)
	m.issues[id] = is
	return is, nil
}

func (m *Memory) DeleteAllIssues(_ context.Context, sess models.Session) (int64, error) {
	if err := checkSession(sess); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, is := range m.issues {
		if is.BuildingID == sess.BuildingID {
			delete(m.issues, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) GetCustomization(_ context.Context, sess models.Session, formID string) (models.TemplateCustomization, error) {
	if err := checkSession(sess); err != nil {
		return models.TemplateCustomization{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customizations[pairKey{sess.BuildingID, formID}]
	if !ok {
		return models.TemplateCustomization{}, ErrNotFound
	}
	return c.Clone(), nil
}

func (m *Memory) UpsertCustomization(_ context.Context, sess models.Session, c models.TemplateCustomization) (models.TemplateCustomization, error) {
	if err := checkSession(sess); err != nil {
		return models.TemplateCustomization{}, err
	}
	c.BuildingID = sess.BuildingID
	normalizeCustomization(&c)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customizations[pairKey{c.BuildingID, c.FormID}] = c.Clone()
	return c.Clone(), nil
}

func (m *Memory) DeleteCustomization(_ context.Context, sess models.Session, formID string) error {
	if err := checkSession(sess); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customizations, pairKey{sess.BuildingID, formID})
	return nil
}

func (m *Memory) CreateUser(_ context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.users[u.Email]; dup {
		return models.User{}, ErrDuplicate
	}
	m.users[u.Email] = u
	return u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}
