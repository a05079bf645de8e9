package reactive

import (
	"context"

	"designer-dashboard-backend/internal/model"
)

// ObjectAPI is the part of the data access layer the object store uses.
type ObjectAPI interface {
	ListObjects(ctx context.Context) ([]model.SceneObject, error)
	CreateObject(ctx context.Context, in model.NewObject) (model.SceneObject, error)
	UpdateObject(ctx context.Context, id string, patch model.ObjectPatch) (model.SceneObject, error)
	DeleteObject(ctx context.Context, id string) error
}

// ObjectStore mirrors the scene object collection for the UI.
type ObjectStore struct {
	api   ObjectAPI
	cache *cache[model.SceneObject]
}

// NewObjectStore creates an empty store. Call Load to fill it.
func NewObjectStore(api ObjectAPI) *ObjectStore {
	return &ObjectStore{
		api:   api,
		cache: newCache(CollectionObjects, func(o model.SceneObject) string { return o.ID }),
	}
}

// Load marks the store as loading, fetches every object and replaces the cache.
// When loads overlap, the one started last wins.
func (s *ObjectStore) Load(ctx context.Context) error {
	seq := s.cache.beginLoad(true)
	defer s.cache.endLoad(true)

	objects, err := s.api.ListObjects(ctx)
	if err != nil {
		return err
	}
	s.cache.replaceAll(seq, objects)
	return nil
}

// Add creates an object and appends it to the cache.
func (s *ObjectStore) Add(ctx context.Context, in model.NewObject) (model.SceneObject, error) {
	o, err := s.api.CreateObject(ctx, in)
	if err != nil {
		return model.SceneObject{}, err
	}
	s.cache.add(o)
	return o, nil
}

// Update patches an object and replaces the cached copy with the result.
// Errors from the data access layer, including dal.ErrNotFound, are returned as is.
func (s *ObjectStore) Update(ctx context.Context, id string, patch model.ObjectPatch) (model.SceneObject, error) {
	o, err := s.api.UpdateObject(ctx, id, patch)
	if err != nil {
		return model.SceneObject{}, err
	}
	s.cache.replace(OpUpdate, o)
	return o, nil
}

// Remove deletes an object and drops it from the cache.
func (s *ObjectStore) Remove(ctx context.Context, id string) error {
	if err := s.api.DeleteObject(ctx, id); err != nil {
		return err
	}
	s.cache.remove(id)
	return nil
}

// Move sets the cached position of an object without persisting it.
// It reports false when the object is not cached.
func (s *ObjectStore) Move(id string, pos model.Position) bool {
	return s.cache.modify(OpMove, id, func(o model.SceneObject) model.SceneObject {
		o.Position = pos
		return o
	})
}

// Objects returns a copy of the cached objects.
func (s *ObjectStore) Objects() []model.SceneObject { return s.cache.snapshot() }

// Find looks up a cached object.
func (s *ObjectStore) Find(id string) (model.SceneObject, bool) { return s.cache.find(id) }

// Loading reports whether a Load is in flight.
func (s *ObjectStore) Loading() bool { return s.cache.Loading() }

// Subscribe registers fn for every cache change.
func (s *ObjectStore) Subscribe(fn func(Event)) func() { return s.cache.Subscribe(fn) }
