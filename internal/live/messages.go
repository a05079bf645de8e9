package live

import (
	"designer-dashboard-backend/internal/editor"
	"designer-dashboard-backend/internal/model"
	"designer-dashboard-backend/internal/reactive"
)

// Inbound message types.
const (
	TypePointerDown      = "pointer_down"
	TypePointerMove      = "pointer_move"
	TypePointerUp        = "pointer_up"
	TypeFloorClick       = "floor_click"
	TypeFloorDoubleClick = "floor_double_click"
)

// Outbound message types.
const (
	TypeEvent     = "event"
	TypeOrbit     = "orbit"
	TypeSelection = "selection"
	TypePlacement = "placement"
	TypeError     = "error"
)

// Inbound is a pointer event sent by the scene.
type Inbound struct {
	Type     string      `json:"type"`
	ObjectID string      `json:"objectId,omitempty"`
	Ray      *editor.Ray `json:"ray,omitempty"`
}

// Outbound is a message sent to the scene. Only the fields of its Type are set.
type Outbound struct {
	Type     string          `json:"type"`
	Event    *reactive.Event `json:"event,omitempty"`
	Enabled  *bool           `json:"enabled,omitempty"`
	ObjectID *string         `json:"objectId,omitempty"`
	Position *model.Position `json:"position,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func eventMessage(ev reactive.Event) Outbound {
	return Outbound{Type: TypeEvent, Event: &ev}
}

func orbitMessage(enabled bool) Outbound {
	return Outbound{Type: TypeOrbit, Enabled: &enabled}
}

func selectionMessage(id string) Outbound {
	return Outbound{Type: TypeSelection, ObjectID: &id}
}

func placementMessage(pos model.Position) Outbound {
	return Outbound{Type: TypePlacement, Position: &pos}
}

func errorMessage(msg string) Outbound {
	return Outbound{Type: TypeError, Error: msg}
}
