package parse

import (
	"designer-dashboard-backend/internal/model"
)

// DefaultColor is used when a new object is created without a color.
const DefaultColor = "#4a90d9"

// DefaultPosition is where a new object lands when no position is given.
var DefaultPosition = model.Position{0, 0.35, 0}

// DesignerInput is the body of a create designer request.
type DesignerInput struct {
	FullName     string `json:"fullName"`
	WorkingHours int    `json:"workingHours"`
}

// Validate returns the cleaned designer or an Errors value.
func (in DesignerInput) Validate() (model.NewDesigner, error) {
	var errs Errors
	fullName, err := FullName(in.FullName)
	errs.add(err)
	hours, err := WorkingHours(in.WorkingHours)
	errs.add(err)
	if err := errs.orNil(); err != nil {
		return model.NewDesigner{}, err
	}
	return model.NewDesigner{FullName: fullName, WorkingHours: hours}, nil
}

// ObjectInput is the body of a create object request.
type ObjectInput struct {
	Name       string          `json:"name"`
	DesignerID string          `json:"designerId"`
	Color      string          `json:"color"`
	Position   *model.Position `json:"position"`
	Size       string          `json:"size"`
}

// Validate returns the cleaned object or an Errors value.
func (in ObjectInput) Validate() (model.NewObject, error) {
	var errs Errors
	name, err := ObjectName(in.Name)
	errs.add(err)
	designerID, err := DesignerID(in.DesignerID)
	errs.add(err)

	color := DefaultColor
	if in.Color != "" {
		color, err = Color(in.Color)
		errs.add(err)
	}
	size, err := Size(in.Size)
	errs.add(err)

	if err := errs.orNil(); err != nil {
		return model.NewObject{}, err
	}

	pos := DefaultPosition
	if in.Position != nil {
		pos = *in.Position
	}
	return model.NewObject{
		Name:       name,
		DesignerID: designerID,
		Color:      color,
		Position:   pos,
		Size:       size,
	}, nil
}

// PatchInput is the body of an update object request. Absent fields are
// left unchanged.
type PatchInput struct {
	Name       *string         `json:"name"`
	DesignerID *string         `json:"designerId"`
	Color      *string         `json:"color"`
	Position   *model.Position `json:"position"`
	Size       *string         `json:"size"`
}

// Validate checks the present fields and returns the patch.
func (in PatchInput) Validate() (model.ObjectPatch, error) {
	var (
		errs  Errors
		patch model.ObjectPatch
	)
	if in.Name != nil {
		v, err := ObjectName(*in.Name)
		errs.add(err)
		patch.Name = &v
	}
	if in.DesignerID != nil {
		v, err := DesignerID(*in.DesignerID)
		errs.add(err)
		patch.DesignerID = &v
	}
	if in.Color != nil {
		v, err := Color(*in.Color)
		errs.add(err)
		patch.Color = &v
	}
	if in.Size != nil {
		v, err := Size(*in.Size)
		errs.add(err)
		patch.Size = &v
	}
	if in.Position != nil {
		p := *in.Position
		patch.Position = &p
	}
	if err := errs.orNil(); err != nil {
		return model.ObjectPatch{}, err
	}
	return patch, nil
}
