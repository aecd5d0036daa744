package service

import (
	"fmt"

	"design2prompt/internal/canvas"
	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
	"design2prompt/internal/export"
)

// ExportService renders prompts and share links from the catalog and the
// current layout.
type ExportService struct {
	store   *canvas.LayoutStore
	catalog domain.Catalog
}

func NewExportService(store *canvas.LayoutStore, cat domain.Catalog) *ExportService {
	return &ExportService{store: store, catalog: cat}
}

// ComponentPrompt renders the prompt for one configuration of refID.
func (s *ExportService) ComponentPrompt(refID string, params domain.StyleParams) (string, error) {
	def, ok := s.catalog.Lookup(refID)
	if !ok {
		return "", fmt.Errorf("catalog entry %q: %w", refID, domain.ErrNotFound)
	}
	return export.Prompt(def, catalog.Resolve(def, params))
}

// InstancePrompt renders the prompt for a placed instance.
func (s *ExportService) InstancePrompt(id string) (string, error) {
	inst, ok := s.store.Instance(id)
	if !ok {
		return "", fmt.Errorf("instance %s: %w", id, domain.ErrNotFound)
	}
	return s.ComponentPrompt(inst.RefID, inst.StyleParams)
}

// LayoutPrompt renders the whole canvas.
func (s *ExportService) LayoutPrompt() (string, error) {
	return export.LayoutPrompt(s.store.Document(), s.catalog, s.store.Bounds())
}

func (s *ExportService) LayoutJSON() ([]byte, error) {
	return export.JSON(s.store.Document())
}

// DeepLink decodes a shared configuration. It never fails.
func (s *ExportService) DeepLink(refID, blob string) domain.WorkingConfig {
	return catalog.ParseDeepLink(s.catalog, refID, blob)
}

// ShareBlob encodes params in the form DeepLink accepts.
func (s *ExportService) ShareBlob(params domain.StyleParams) (string, error) {
	return catalog.EncodeDeepLink(params)
}
