// Package token defines the token and scene read model and the Store the map
// view writes back to.
//
// The store is an external collaborator: the engine reads a snapshot of
// tokens, computes new positions locally, and commits them through a
// [Committer] without waiting for the result. Whatever the store reports on
// the next read supersedes local state.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and the offline terminal view
//   - token/redis: go-redis hash per scene
//   - token/mongo: one document per token
//   - token/sqlite: embedded SQLite database
package token

import (
	"context"
	"errors"

	"github.com/matzehuels/battlemap/pkg/geom"
)

// Sentinel errors for store operations.
var (
	// ErrSceneNotFound is returned when a scene does not exist.
	ErrSceneNotFound = errors.New("scene not found")

	// ErrTokenNotFound is returned when a token does not exist in its scene.
	ErrTokenNotFound = errors.New("token not found")
)

// Store is the interface for token storage backends.
type Store interface {
	// Scene returns a scene or ErrSceneNotFound.
	Scene(ctx context.Context, id string) (Scene, error)

	// PutScene creates or replaces a scene.
	PutScene(ctx context.Context, s Scene) error

	// Tokens returns every token of a scene ordered by key. A scene without
	// tokens yields an empty slice; an unknown scene yields ErrSceneNotFound.
	Tokens(ctx context.Context, sceneID string) ([]Token, error)

	// PutToken creates or replaces a token. The scene must exist.
	PutToken(ctx context.Context, t Token) error

	// UpdatePosition moves a token or returns ErrTokenNotFound.
	UpdatePosition(ctx context.Context, sceneID, key string, pos geom.Vec) error

	// UpdateVisibility shows or hides a token or returns ErrTokenNotFound.
	UpdateVisibility(ctx context.Context, sceneID, key string, visible bool) error

	// DeleteToken removes a token. Deleting a missing token is not an error.
	DeleteToken(ctx context.Context, sceneID, key string) error

	// Close releases backend resources.
	Close() error
}
