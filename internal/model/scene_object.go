package model

// Position is a point in scene space (x, y, z). y is up.
type Position [3]float64

// X returns the x component.
func (p Position) X() float64 { return p[0] }

// Y returns the y component.
func (p Position) Y() float64 { return p[1] }

// Z returns the z component.
func (p Position) Z() float64 { return p[2] }

// Size is the rendered size class of a scene object.
type Size string

const (
	SizeSmall  Size = "small"
	SizeNormal Size = "normal"
	SizeLarge  Size = "large"
)

// Scale returns the edge length of the cube rendered for the size.
// Unknown sizes render as SizeNormal.
func (s Size) Scale() float64 {
	switch s {
	case SizeSmall:
		return 0.4
	case SizeLarge:
		return 1.1
	default:
		return 0.7
	}
}

// Valid reports whether s is one of the known size classes.
func (s Size) Valid() bool {
	return s == SizeSmall || s == SizeNormal || s == SizeLarge
}

// SceneObject is a colored cube placed on the ground plane and attached to a designer.
// DesignerID may reference a designer that no longer exists.
type SceneObject struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DesignerID string   `json:"designerId"`
	Color      string   `json:"color"`
	Position   Position `json:"position"`
	Size       Size     `json:"size"`
}

// NewObject holds the fields supplied when a scene object is created.
type NewObject struct {
	Name       string   `json:"name"`
	DesignerID string   `json:"designerId"`
	Color      string   `json:"color"`
	Position   Position `json:"position"`
	Size       Size     `json:"size"`
}

// ObjectPatch is a partial update of a scene object. Nil fields are left unchanged.
type ObjectPatch struct {
	Name       *string   `json:"name,omitempty"`
	DesignerID *string   `json:"designerId,omitempty"`
	Color      *string   `json:"color,omitempty"`
	Position   *Position `json:"position,omitempty"`
	Size       *Size     `json:"size,omitempty"`
}

// Apply returns a copy of o with the patch fields applied.
func (p ObjectPatch) Apply(o SceneObject) SceneObject {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.DesignerID != nil {
		o.DesignerID = *p.DesignerID
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
	if p.Position != nil {
		o.Position = *p.Position
	}
	if p.Size != nil {
		o.Size = *p.Size
	}
	return o
}

// Reassigns reports whether applying the patch to o moves it to another designer.
func (p ObjectPatch) Reassigns(o SceneObject) bool {
	return p.DesignerID != nil && *p.DesignerID != o.DesignerID
}
