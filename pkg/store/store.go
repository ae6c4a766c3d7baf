// Package store persists published block definitions.
//
// A [Store] maps template identifiers to templates, kept in the binary
// definition format. Backends:
//   - [DirStore]: one "<id>.cbd" file per definition, for the CLI and for
//     building catalogs
//   - [MongoStore]: a MongoDB collection, for the HTTP server in shared
//     deployments
//
// # Usage
//
//	st, err := store.NewDirStore("")  // ~/.local/share/blockdock/definitions
//	err = st.Put(ctx, tmpl)
//	tmpl, err := st.Get(ctx, "motor.run")
//	if errors.Is(err, store.ErrNotFound) { ... }
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/blockdock/pkg/block"
)

// ErrNotFound is returned when no definition is stored under an identifier.
var ErrNotFound = errors.New("definition not found")

// Entry describes a stored definition without decoding it.
type Entry struct {
	ID        string
	Size      int
	UpdatedAt time.Time
}

// Store is the interface for definition storage backends.
type Store interface {
	// Get returns the template stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (*block.Template, error)
	// Put encodes t and stores it under t.ID, replacing any previous
	// definition.
	Put(ctx context.Context, t *block.Template) error
	// Delete removes the definition under id. Deleting a missing
	// definition is not an error.
	Delete(ctx context.Context, id string) error
	// List returns all stored definitions ordered by identifier.
	List(ctx context.Context) ([]Entry, error)
	// Close releases the backend.
	Close() error
}
