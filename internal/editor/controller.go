package editor

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"designer-dashboard-backend/internal/dal"
	"designer-dashboard-backend/internal/logging"
	"designer-dashboard-backend/internal/model"
)

// PlacementHeight is the y coordinate of an object placed with a double click.
const PlacementHeight = 0.35

// State is the drag state of a Controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Scene is the object cache a Controller drags objects in.
type Scene interface {
	Find(id string) (model.SceneObject, bool)
	Move(id string, pos model.Position) bool
}

// Committer persists the final position of a drag.
type Committer interface {
	Commit(ctx context.Context, id string, pos model.Position) error
}

// Controller turns pointer events from one interactive session into
// selection changes, local moves and a single commit per drag.
type Controller struct {
	scene     Scene
	committer Committer
	log       *zap.Logger

	mu       sync.Mutex
	state    State
	selected string
	// last is where the current drag last put the object; moved is false
	// until the first move of a drag.
	last  model.Position
	moved bool
}

// NewController creates an idle controller with nothing selected.
func NewController(scene Scene, committer Committer, log *zap.Logger) *Controller {
	return &Controller{scene: scene, committer: committer, log: logging.OrNop(log)}
}

// PointerDown selects the object and starts dragging it. Unknown objects are
// ignored and false is returned.
func (c *Controller) PointerDown(id string) bool {
	if _, ok := c.scene.Find(id); !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
	c.state = Dragging
	c.moved = false
	return true
}

// PointerMove moves the dragged object to where r meets the ground, resting
// on its bottom face. Nothing is persisted.
func (c *Controller) PointerMove(r Ray) (model.Position, bool) {
	c.mu.Lock()
	id, dragging := c.selected, c.state == Dragging
	c.mu.Unlock()
	if !dragging {
		return model.Position{}, false
	}

	hit, ok := IntersectGround(r)
	if !ok {
		return model.Position{}, false
	}
	o, ok := c.scene.Find(id)
	if !ok {
		return model.Position{}, false
	}
	pos := model.Position{hit.X(), o.Size.Scale() / 2, hit.Z()}
	if !c.scene.Move(id, pos) {
		return model.Position{}, false
	}

	c.mu.Lock()
	if c.state == Dragging && c.selected == id {
		c.last, c.moved = pos, true
	}
	c.mu.Unlock()
	return pos, true
}

// PointerUp ends a drag and commits once the position the drag last moved
// the object to, even if a reload replaced the cached copy in between.
// Without a move the cached position is committed. A commit for an object
// deleted mid-drag is logged and ignored. The local position is not rolled
// back when the commit fails.
func (c *Controller) PointerUp(ctx context.Context) error {
	c.mu.Lock()
	id, dragging := c.selected, c.state == Dragging
	pos, moved := c.last, c.moved
	c.state = Idle
	c.moved = false
	c.mu.Unlock()
	if !dragging {
		return nil
	}

	o, ok := c.scene.Find(id)
	if !ok {
		c.log.Warn("dragged object vanished before release", zap.String("id", id))
		return nil
	}
	if !moved {
		pos = o.Position
	}
	err := c.committer.Commit(ctx, id, pos)
	if errors.Is(err, dal.ErrNotFound) {
		c.log.Warn("drag commit for deleted object ignored", zap.String("id", id))
		return nil
	}
	return err
}

// FloorClick clears the selection unless a drag is in progress.
func (c *Controller) FloorClick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Dragging {
		c.selected = ""
	}
}

// FloorDoubleClick returns where a new object should be placed.
func (c *Controller) FloorDoubleClick(r Ray) (model.Position, bool) {
	hit, ok := IntersectGround(r)
	if !ok {
		return model.Position{}, false
	}
	return model.Position{hit.X(), PlacementHeight, hit.Z()}, true
}

// Selected returns the selected object id, or "".
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// State returns the current drag state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OrbitEnabled reports whether camera orbit is allowed, which is whenever
// no drag is in progress.
func (c *Controller) OrbitEnabled() bool {
	return c.State() != Dragging
}
