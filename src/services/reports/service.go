package reports

import (
	"context"
	"errors"
	"time"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/store"
)

type Repository interface {
	store.InspectionStore
	store.CustomizationStore
}

type Service struct {
	store    Repository
	catalog  *catalog.Catalog
	renderer Renderer
	baseURL  string
	now      func() time.Time
}

func NewService(s Repository, cat *catalog.Catalog, renderer Renderer, baseURL string) *Service {
	return &Service{store: s, catalog: cat, renderer: renderer, baseURL: baseURL, now: time.Now}
}

// Build loads an inspection and lays it out. Inspections whose form is no
// longer in the catalog are listed item by item.
func (s *Service) Build(ctx context.Context, sess models.Session, inspectionID string) (Report, error) {
	in, err := s.store.GetInspection(ctx, sess, inspectionID)
	if err != nil {
		return Report{}, err
	}
	t, err := s.catalog.Get(in.FormID)
	if err != nil && !errors.Is(err, catalog.ErrTemplateNotFound) {
		return Report{}, err
	}
	c, err := store.CustomizationOrEmpty(ctx, s.store, sess, in.FormID)
	if err != nil {
		return Report{}, err
	}
	r := BuildReport(in, t, c)
	if s.baseURL != "" {
		r.Link = s.baseURL + "/inspections/" + in.ID
	}
	return r, nil
}

func (s *Service) HTML(ctx context.Context, sess models.Session, inspectionID string) ([]byte, error) {
	r, err := s.Build(ctx, sess, inspectionID)
	if err != nil {
		return nil, err
	}
	return RenderHTML(r, s.now())
}

// PDF returns the document and a file name for Content-Disposition.
func (s *Service) PDF(ctx context.Context, sess models.Session, inspectionID string) ([]byte, string, error) {
	html, err := s.HTML(ctx, sess, inspectionID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return pdf, "inspection-" + inspectionID + ".pdf", nil
}
