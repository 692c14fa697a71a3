// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about pointer gestures, token commits, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCommitHooks(&myCommitHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Commit().OnCommit(ctx, "position", scene, key, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives pointer gesture transitions.
type GestureHooks interface {
	// OnDragStart records a pointer-down promoted to a drag.
	OnDragStart(gesture string)

	// OnDragEnd records a finished drag. cancelled is true for pointer cancel
	// or window blur.
	OnDragEnd(gesture string, duration time.Duration, cancelled bool)
}

// =============================================================================
// Commit Hooks
// =============================================================================

// CommitHooks receives fire-and-forget writes to the token store.
type CommitHooks interface {
	// OnCommit records the outcome of one store write.
	OnCommit(ctx context.Context, kind, sceneID, tokenKey string, duration time.Duration, err error)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from the HTTP API.
type APIHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnDragStart(string)                    {}
func (NoopGestureHooks) OnDragEnd(string, time.Duration, bool) {}

// NoopCommitHooks is a no-op implementation of CommitHooks.
type NoopCommitHooks struct{}

func (NoopCommitHooks) OnCommit(context.Context, string, string, string, time.Duration, error) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	gestureHooks GestureHooks = NoopGestureHooks{}
	commitHooks  CommitHooks  = NoopCommitHooks{}
	apiHooks     APIHooks     = NoopAPIHooks{}
	hooksMu      sync.RWMutex
)

// SetGestureHooks registers custom gesture hooks.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// SetCommitHooks registers custom commit hooks.
// This should be called once at application startup before any store writes.
func SetCommitHooks(h CommitHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		commitHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Commit returns the registered commit hooks.
func Commit() CommitHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return commitHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gestureHooks = NoopGestureHooks{}
	commitHooks = NoopCommitHooks{}
	apiHooks = NoopAPIHooks{}
}
