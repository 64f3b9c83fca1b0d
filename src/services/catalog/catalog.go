package catalog

import (
	"errors"
	"fmt"

	"Backend-Inspectrack/src/models"
)

var ErrTemplateNotFound = errors.New("template not found")

// Catalog is a read-only registry of form templates.
type Catalog struct {
	order []string
	byID  map[string]models.FormTemplate
}

// New builds a catalog from the given templates. Duplicate ids are rejected.
func New(templates ...models.FormTemplate) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]models.FormTemplate, len(templates))}
	for _, t := range templates {
		if t.ID == "" {
			return nil, errors.New("template id is required")
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		if err := validateTemplate(t); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.ID, err)
		}
		c.order = append(c.order, t.ID)
		c.byID[t.ID] = t.Clone()
	}
	return c, nil
}

// Default returns the catalog of built-in templates.
func Default() *Catalog {
	c, err := New(builtinTemplates()...)
	if err != nil {
		panic("catalog: invalid built-in templates: " + err.Error())
	}
	return c
}

// Get looks up a template by id. The returned value is a copy.
func (c *Catalog) Get(id string) (models.FormTemplate, error) {
	t, ok := c.byID[id]
	if !ok {
		return models.FormTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return t.Clone(), nil
}

// List returns every template in registration order.
func (c *Catalog) List() []models.FormTemplate {
	out := make([]models.FormTemplate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

func validateTemplate(t models.FormTemplate) error {
	sections := map[string]bool{}
	for _, s := range t.Sections {
		if s.ID == "" {
			return errors.New("section id is required")
		}
		if sections[s.ID] {
			return fmt.Errorf("duplicate section id %q", s.ID)
		}
		sections[s.ID] = true
		items := map[string]bool{}
		for _, it := range s.Items {
			if it.ID == "" || it.Label == "" {
				return fmt.Errorf("section %q: item id and label are required", s.ID)
			}
			if items[it.ID] {
				return fmt.Errorf("section %q: duplicate item id %q", s.ID, it.ID)
			}
			if !it.InputType.Valid() {
				return fmt.Errorf("item %q: unknown input type %q", it.ID, it.InputType)
			}
			items[it.ID] = true
		}
	}
	return nil
}
