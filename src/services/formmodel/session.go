package formmodel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
)

var (
	ErrLabelRequired    = errors.New("item label is required")
	ErrSectionRequired  = errors.New("section id is required")
	ErrUnknownSection   = errors.New("section does not exist in template")
	ErrInvalidInputType = errors.New("invalid input type")
	ErrItemNotFound     = errors.New("item is not visible in section")
	ErrNoPendingRemoval = errors.New("no removal awaiting confirmation")
)

// NewItem describes a custom item to add to a section.
type NewItem struct {
	SectionID string           `json:"sectionId" validate:"required"`
	Label     string           `json:"label" validate:"required"`
	InputType models.InputType `json:"inputType,omitempty"`
	Required  bool             `json:"required"`
	Unit      string           `json:"unit,omitempty"`
	Options   []string         `json:"options,omitempty"`
}

// PendingRemoval is a removal that has been requested but not confirmed.
type PendingRemoval struct {
	SectionID string `json:"sectionId"`
	ItemID    string `json:"itemId"`
}

// Session is one form being filled for a building: template, customization and answers.
// It is not safe for concurrent use.
type Session struct {
	template  models.FormTemplate
	custom    models.TemplateCustomization
	collector *Collector
	pending   *PendingRemoval
	now       func() time.Time
}

// NewSession copies its inputs; later edits never reach the caller's values.
func NewSession(t models.FormTemplate, c models.TemplateCustomization, responses models.FormResponse) *Session {
	custom := c.Clone()
	if custom.FormID == "" {
		custom.FormID = t.ID
	}
	return &Session{
		template:  t.Clone(),
		custom:    custom,
		collector: NewCollector(responses),
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

func (s *Session) Template() models.FormTemplate { return s.template.Clone() }

func (s *Session) Customization() models.TemplateCustomization { return s.custom.Clone() }

func (s *Session) Collector() *Collector { return s.collector }

func (s *Session) Sections() []MergedSection { return Merge(s.template, s.custom) }

func (s *Session) Progress() int { return s.collector.Progress(s.Sections()) }

func (s *Session) IssueCount() int { return s.collector.IssueCount(s.Sections()) }

func (s *Session) Pending() (PendingRemoval, bool) {
	if s.pending == nil {
		return PendingRemoval{}, false
	}
	return *s.pending, true
}

// AddItem appends a custom item to a section and returns it with its new id.
func (s *Session) AddItem(in NewItem) (models.ChecklistItemDefinition, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return models.ChecklistItemDefinition{}, ErrLabelRequired
	}
	if in.SectionID == "" {
		return models.ChecklistItemDefinition{}, ErrSectionRequired
	}
	if _, ok := s.template.Section(in.SectionID); !ok {
		return models.ChecklistItemDefinition{}, fmt.Errorf("%w: %s", ErrUnknownSection, in.SectionID)
	}

	def := models.ChecklistItemDefinition{
		Label:     label,
		InputType: in.InputType,
		Required:  in.Required,
		Unit:      in.Unit,
		Options:   append([]string(nil), in.Options...),
		IsCustom:  true,
	}
	if def.InputType == "" {
		def.InputType = models.InputPassFail
		if e, ok := catalog.LookupLibrary(label); ok {
			def.InputType = e.InputType
			if def.Unit == "" {
				def.Unit = e.Unit
			}
			if len(def.Options) == 0 {
				def.Options = e.Options
			}
		}
	}
	if !def.InputType.Valid() {
		return models.ChecklistItemDefinition{}, fmt.Errorf("%w: %q", ErrInvalidInputType, in.InputType)
	}
	def.ID = s.nextCustomID(in.SectionID)

	if s.custom.CustomItems == nil {
		s.custom.CustomItems = map[string][]models.ChecklistItemDefinition{}
	}
	s.custom.CustomItems[in.SectionID] = append(s.custom.CustomItems[in.SectionID], def)
	s.custom.LastUpdated = s.now()
	return def.Clone(), nil
}

// nextCustomID derives a time-based id, bumped until it is unused in the section.
func (s *Session) nextCustomID(sectionID string) string {
	taken := map[string]bool{}
	if sec, ok := s.template.Section(sectionID); ok {
		for _, it := range sec.Items {
			taken[it.ID] = true
		}
	}
	for _, it := range s.custom.CustomItems[sectionID] {
		taken[it.ID] = true
	}
	n := s.now().UnixNano()
	for {
		id := fmt.Sprintf("custom-%d", n)
		if !taken[id] {
			return id
		}
		n++
	}
}

// RequestRemoval marks a visible item for removal. Nothing changes until ConfirmRemoval.
// A second request replaces the first.
func (s *Session) RequestRemoval(sectionID, itemID string) error {
	if _, ok := findItem(s.Sections(), sectionID, itemID); !ok {
		return fmt.Errorf("%w: %s/%s", ErrItemNotFound, sectionID, itemID)
	}
	s.pending = &PendingRemoval{SectionID: sectionID, ItemID: itemID}
	return nil
}

func (s *Session) CancelRemoval() {
	s.pending = nil
}

// ConfirmRemoval applies the pending removal. A custom item is deleted outright;
// a template item is recorded as removed for its section. Its answer is discarded.
func (s *Session) ConfirmRemoval() (PendingRemoval, error) {
	if s.pending == nil {
		return PendingRemoval{}, ErrNoPendingRemoval
	}
	p := *s.pending
	s.pending = nil

	if _, ok := findItem(s.Sections(), p.SectionID, p.ItemID); !ok {
		return PendingRemoval{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, p.SectionID, p.ItemID)
	}

	customs := s.custom.CustomItems[p.SectionID]
	removedCustom := false
	for i, it := range customs {
		if it.ID == p.ItemID {
			s.custom.CustomItems[p.SectionID] = append(customs[:i:i], customs[i+1:]...)
			if len(s.custom.CustomItems[p.SectionID]) == 0 {
				delete(s.custom.CustomItems, p.SectionID)
			}
			removedCustom = true
			break
		}
	}
	if !removedCustom {
		if s.custom.RemovedItemIDs == nil {
			s.custom.RemovedItemIDs = map[string][]string{}
		}
		s.custom.RemovedItemIDs[p.SectionID] = append(s.custom.RemovedItemIDs[p.SectionID], p.ItemID)
	}
	s.collector.Discard(p.ItemID)
	s.custom.LastUpdated = s.now()
	return p, nil
}

// Reset drops every customization, restoring the pristine template.
// Answers for items that are no longer visible are discarded.
func (s *Session) Reset() {
	s.custom = models.NewCustomization(s.custom.BuildingID, s.template.ID)
	s.custom.LastUpdated = s.now()
	s.pending = nil
	visible := visibleIDs(s.Sections())
	for id := range s.collector.responses {
		if !visible[id] {
			s.collector.Discard(id)
		}
	}
}
