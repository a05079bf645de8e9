package reactive

import (
	"context"

	"designer-dashboard-backend/internal/model"
)

// DesignerAPI is the part of the data access layer the designer store uses.
type DesignerAPI interface {
	ListDesigners(ctx context.Context) ([]model.Designer, error)
	CreateDesigner(ctx context.Context, in model.NewDesigner) (model.Designer, error)
	DeleteDesigner(ctx context.Context, id string) error
}

// DesignerStore mirrors the designer collection for the UI.
//
// Its attached object counts go stale whenever objects are created, deleted
// or reassigned; whoever changes objects is responsible for calling Load or
// Refresh afterwards.
type DesignerStore struct {
	api   DesignerAPI
	cache *cache[model.Designer]
}

// NewDesignerStore creates an empty store. Call Load to fill it.
func NewDesignerStore(api DesignerAPI) *DesignerStore {
	return &DesignerStore{
		api:   api,
		cache: newCache(CollectionDesigners, func(d model.Designer) string { return d.ID }),
	}
}

// Load marks the store as loading, fetches every designer and replaces the cache.
// When loads overlap, the one started last wins.
func (s *DesignerStore) Load(ctx context.Context) error {
	return s.load(ctx, true)
}

// Refresh replaces the cache without touching the loading flag.
func (s *DesignerStore) Refresh(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *DesignerStore) load(ctx context.Context, tracked bool) error {
	seq := s.cache.beginLoad(tracked)
	defer s.cache.endLoad(tracked)

	designers, err := s.api.ListDesigners(ctx)
	if err != nil {
		return err
	}
	s.cache.replaceAll(seq, designers)
	return nil
}

// Add creates a designer and appends it to the cache.
func (s *DesignerStore) Add(ctx context.Context, in model.NewDesigner) (model.Designer, error) {
	d, err := s.api.CreateDesigner(ctx, in)
	if err != nil {
		return model.Designer{}, err
	}
	s.cache.add(d)
	return d, nil
}

// Remove deletes a designer and drops it from the cache.
func (s *DesignerStore) Remove(ctx context.Context, id string) error {
	if err := s.api.DeleteDesigner(ctx, id); err != nil {
		return err
	}
	s.cache.remove(id)
	return nil
}

// Designers returns a copy of the cached designers.
func (s *DesignerStore) Designers() []model.Designer { return s.cache.snapshot() }

// Find looks up a cached designer. A dangling designerId simply isn't found.
func (s *DesignerStore) Find(id string) (model.Designer, bool) { return s.cache.find(id) }

// Loading reports whether a Load is in flight.
func (s *DesignerStore) Loading() bool { return s.cache.Loading() }

// Subscribe registers fn for every cache change.
func (s *DesignerStore) Subscribe(fn func(Event)) func() { return s.cache.Subscribe(fn) }
