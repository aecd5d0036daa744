package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Collection Service — named sets of saved configurations
// ─────────────────────────────────────────────────────────────

type CollectionService struct {
	store   domain.CollectionStore
	catalog domain.Catalog
	emitter EventEmitter
}

func NewCollectionService(store domain.CollectionStore, cat domain.Catalog, emitter EventEmitter) *CollectionService {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	return &CollectionService{store: store, catalog: cat, emitter: emitter}
}

func (s *CollectionService) changed(ctx context.Context, id string) {
	s.emitter.Emit(ctx, EventCollectionsChanged, id)
}

func (s *CollectionService) Create(ctx context.Context, name, description string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("collection name is required: %w", domain.ErrInvalidInput)
	}
	c := &domain.Collection{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Components:  []domain.SavedComponent{},
	}
	if err := s.store.CreateCollection(c); err != nil {
		return nil, err
	}
	s.changed(ctx, c.ID)
	return c, nil
}

func (s *CollectionService) Get(id string) (*domain.Collection, error) {
	return s.store.GetCollection(id)
}

func (s *CollectionService) List() ([]domain.Collection, error) {
	return s.store.ListCollections()
}

// Update renames and re-describes a collection. An empty name keeps the
// current one.
func (s *CollectionService) Update(ctx context.Context, id, name, description string) (*domain.Collection, error) {
	c, err := s.store.GetCollection(id)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(name); n != "" {
		c.Name = n
	}
	c.Description = description
	if err := s.store.UpdateCollection(c); err != nil {
		return nil, err
	}
	s.changed(ctx, id)
	return c, nil
}

func (s *CollectionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCollection(id); err != nil {
		return err
	}
	s.changed(ctx, id)
	return nil
}

// SaveComponent stores a configuration of refID in a collection. The
// parameters are validated against the catalog definition.
func (s *CollectionService) SaveComponent(ctx context.Context, collectionID, refID, name string, params domain.StyleParams) (*domain.SavedComponent, error) {
	def, ok := s.catalog.Lookup(refID)
	if !ok {
		return nil, fmt.Errorf("catalog entry %q: %w", refID, domain.ErrNotFound)
	}
	if strings.TrimSpace(name) == "" {
		name = def.Name
	}
	sc := &domain.SavedComponent{
		ID:          uuid.New().String(),
		RefID:       refID,
		Name:        name,
		StyleParams: catalog.Resolve(def, params),
	}
	if err := s.store.AddComponent(collectionID, sc); err != nil {
		return nil, err
	}
	s.changed(ctx, collectionID)
	return sc, nil
}

func (s *CollectionService) UpdateComponent(ctx context.Context, collectionID, componentID, name string, params domain.StyleParams) (*domain.SavedComponent, error) {
	sc, err := s.Component(collectionID, componentID)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(name); n != "" {
		sc.Name = n
	}
	sc.StyleParams = sc.StyleParams.Merge(params)
	if def, ok := s.catalog.Lookup(sc.RefID); ok {
		sc.StyleParams = catalog.Sanitize(def, sc.StyleParams)
	}
	if err := s.store.UpdateComponent(collectionID, sc); err != nil {
		return nil, err
	}
	s.changed(ctx, collectionID)
	return sc, nil
}

func (s *CollectionService) RemoveComponent(ctx context.Context, collectionID, componentID string) error {
	if err := s.store.RemoveComponent(collectionID, componentID); err != nil {
		return err
	}
	s.changed(ctx, collectionID)
	return nil
}

// Component returns one saved configuration.
func (s *CollectionService) Component(collectionID, componentID string) (*domain.SavedComponent, error) {
	c, err := s.store.GetCollection(collectionID)
	if err != nil {
		return nil, err
	}
	for i := range c.Components {
		if c.Components[i].ID == componentID {
			return &c.Components[i], nil
		}
	}
	return nil, fmt.Errorf("component %s: %w", componentID, domain.ErrNotFound)
}
