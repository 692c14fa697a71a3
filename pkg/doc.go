// Package pkg provides the libraries behind battlemap, a shared square-grid
// map for tabletop sessions.
//
// # Overview
//
// The engine turns raw pointer input into camera moves, selections and token
// writes. It is organised bottom-up:
//
//  1. [geom] - immutable vectors and rects
//  2. [grid] - snapping between world units and grid cells
//  3. [camera] - pan and zoom between world and viewport space
//  4. [gesture] - the press, drag and click state machine
//  5. [selection] and [drawarea] - drag-select and area drawing
//  6. [token] - the scene and token read model and its stores
//  7. [board] - one map view wiring all of the above together
//  8. [api] - the same operations over HTTP
//
// # Data Flow
//
//	pointer event (viewport)
//	         ↓
//	    [gesture] trackers
//	         ↓
//	    [board] (camera maps to world, snaps with [grid])
//	         ↓
//	    [token.Committer] (fire-and-forget write)
//	         ↓
//	    [token.Store] (memory, redis, mongo or sqlite)
//
// The board shows positions computed locally until the next snapshot from
// the store replaces them.
//
// # Quick Start
//
//	store := token.NewMemoryStore()
//	if err := token.Seed(ctx, store, scene, tokens); err != nil {
//		return err
//	}
//
//	b := board.New(scene, token.NewCommitter(store, nil, 0), board.Options{})
//	snapshot, err := store.Tokens(ctx, scene.ID)
//	if err != nil {
//		return err
//	}
//	b.SetSnapshot(snapshot)
//
//	b.Handle(gesture.Event{Kind: gesture.Down, Client: geom.V(12, 12), Buttons: gesture.ButtonLeft})
//	b.Handle(gesture.Event{Kind: gesture.Move, Client: geom.V(60, 60), Buttons: gesture.ButtonLeft})
//	b.Handle(gesture.Event{Kind: gesture.Up, Client: geom.V(60, 60), Buttons: gesture.ButtonLeft})
//
// Supporting packages: [config] loads the TOML config file, [errors] carries
// coded errors, [httputil] writes JSON responses and [observability] exposes
// hooks for metrics.
package pkg
