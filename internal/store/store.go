package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names of the durable layout.
const (
	CollectionDesigners = "designers"
	CollectionObjects   = "objects"
)

// ErrNotFound is returned by Load when nothing was ever saved under a collection name.
var ErrNotFound = errors.New("collection not found")

// Store is durable storage of named collections, each serialized as one payload.
type Store interface {
	// Load returns the last saved payload for the collection, or ErrNotFound.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save overwrites every given collection in one atomic write.
	Save(ctx context.Context, records map[string][]byte) error
	Close() error
}

// Status describes how a collection load resolved.
type Status int

const (
	// Loaded means the payload was present and decoded.
	Loaded Status = iota
	// Missing means nothing was saved under the name yet.
	Missing
	// Unavailable means the backend failed to read the payload.
	Unavailable
	// Corrupt means the payload could not be decoded.
	Corrupt
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Unavailable:
		return "unavailable"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Outcome reports the status of a collection load and, when it degraded, why.
type Outcome struct {
	Status Status
	Cause  error
}

// LoadCollection reads and decodes a collection. It never fails: a missing,
// unreadable or undecodable payload yields an empty collection and the Outcome
// says which of those happened.
func LoadCollection[T any](ctx context.Context, s Store, name string) ([]T, Outcome) {
	raw, err := s.Load(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return []T{}, Outcome{Status: Missing}
	}
	if err != nil {
		return []T{}, Outcome{Status: Unavailable, Cause: err}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}, Outcome{Status: Corrupt, Cause: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, Outcome{Status: Loaded}
}

// Encode serializes a collection for Save.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
