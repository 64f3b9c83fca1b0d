package formmodel

import (
	"math"

	"Backend-Inspectrack/src/models"
)

// Collector holds the in-progress answers of one form session.
type Collector struct {
	responses models.FormResponse
}

// NewCollector starts from a copy of initial, which may be nil.
func NewCollector(initial models.FormResponse) *Collector {
	if initial == nil {
		return &Collector{responses: models.FormResponse{}}
	}
	return &Collector{responses: initial.Clone()}
}

func (c *Collector) update(itemID string, fn func(*models.ItemResponse)) {
	r := c.responses[itemID]
	fn(&r)
	c.responses[itemID] = r
}

// SetValue replaces the answer for itemID. The value is not checked against the item type.
func (c *Collector) SetValue(itemID string, v models.Value) {
	c.update(itemID, func(r *models.ItemResponse) { r.Value = v })
}

func (c *Collector) SetNote(itemID, note string) {
	c.update(itemID, func(r *models.ItemResponse) { r.Note = note })
}

func (c *Collector) SetActionBy(itemID, who string) {
	c.update(itemID, func(r *models.ItemResponse) { r.ActionBy = who })
}

func (c *Collector) SetCompletionDate(itemID, date string) {
	c.update(itemID, func(r *models.ItemResponse) { r.CompletionDate = date })
}

// Apply merges a whole response entry, as sent by a client saving its form.
func (c *Collector) Apply(itemID string, r models.ItemResponse) {
	c.responses[itemID] = r
}

func (c *Collector) Get(itemID string) (models.ItemResponse, bool) {
	r, ok := c.responses[itemID]
	return r, ok
}

func (c *Collector) Discard(itemID string) {
	delete(c.responses, itemID)
}

// Responses returns a copy of the current answers.
func (c *Collector) Responses() models.FormResponse {
	return c.responses.Clone()
}

// Progress is the rounded percentage of required visible items that have an
// effective value. With no required items the form counts as complete.
func (c *Collector) Progress(sections []MergedSection) int {
	required, answered := 0, 0
	for _, s := range sections {
		for _, it := range s.Items {
			if !it.Required {
				continue
			}
			required++
			if HasEffectiveValue(it.InputType, c.responses[it.ID].Value) {
				answered++
			}
		}
	}
	if required == 0 {
		return 100
	}
	return int(math.Round(float64(answered) * 100 / float64(required)))
}

// IssueCount counts visible items whose answer is flagged by IsIssue.
func (c *Collector) IssueCount(sections []MergedSection) int {
	n := 0
	for _, s := range sections {
		for _, it := range s.Items {
			if IsIssue(it.InputType, c.responses[it.ID].Value) {
				n++
			}
		}
	}
	return n
}
