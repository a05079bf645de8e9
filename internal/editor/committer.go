package editor

import (
	"context"

	"designer-dashboard-backend/internal/model"
)

// ObjectUpdater is satisfied by reactive.ObjectStore.
type ObjectUpdater interface {
	Update(ctx context.Context, id string, patch model.ObjectPatch) (model.SceneObject, error)
}

// StoreCommitter commits a drag synchronously with a position-only update.
type StoreCommitter struct {
	Objects ObjectUpdater
}

// Commit sends a patch that changes only the object's position.
func (c StoreCommitter) Commit(ctx context.Context, id string, pos model.Position) error {
	_, err := c.Objects.Update(ctx, id, model.ObjectPatch{Position: &pos})
	return err
}
