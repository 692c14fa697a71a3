package token

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/observability"
)

// DefaultCommitTimeout bounds a single background store write.
const DefaultCommitTimeout = 5 * time.Second

// Commit kinds reported in Result.Kind and observability hooks.
const (
	CommitPosition   = "position"
	CommitVisibility = "visibility"
	CommitCreate     = "create"
)

// Result describes one finished background write.
type Result struct {
	Kind    string
	SceneID string
	Key     string
	Err     error
}

// Committer sends writes to a Store without blocking the caller. Each write
// runs on its own goroutine with its own timeout, detached from any gesture
// or request context. Failures are logged and reported; they are never
// retried.
type Committer struct {
	store   Store
	logger  *log.Logger
	timeout time.Duration

	mu     sync.Mutex
	onDone func(Result)

	wg sync.WaitGroup
}

// NewCommitter creates a committer for store. A nil logger uses
// log.Default(); a non-positive timeout uses DefaultCommitTimeout.
func NewCommitter(store Store, logger *log.Logger, timeout time.Duration) *Committer {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = DefaultCommitTimeout
	}
	return &Committer{store: store, logger: logger, timeout: timeout}
}

// OnDone registers fn to be called after every write, from the write's
// goroutine. The terminal view uses it to request a fresh snapshot.
func (c *Committer) OnDone(fn func(Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = fn
}

// UpdatePosition commits a new token position.
func (c *Committer) UpdatePosition(sceneID, key string, pos geom.Vec) {
	c.dispatch(CommitPosition, sceneID, key, func(ctx context.Context) error {
		return c.store.UpdatePosition(ctx, sceneID, key, pos)
	})
}

// UpdateVisibility commits a visibility change.
func (c *Committer) UpdateVisibility(sceneID, key string, visible bool) {
	c.dispatch(CommitVisibility, sceneID, key, func(ctx context.Context) error {
		return c.store.UpdateVisibility(ctx, sceneID, key, visible)
	})
}

// Create commits a new token.
func (c *Committer) Create(t Token) {
	c.dispatch(CommitCreate, t.Scene, t.Key, func(ctx context.Context) error {
		return c.store.PutToken(ctx, t)
	})
}

// Wait blocks until every dispatched write has finished.
func (c *Committer) Wait() { c.wg.Wait() }

func (c *Committer) dispatch(kind, sceneID, key string, fn func(context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		start := time.Now()
		err := fn(ctx)
		elapsed := time.Since(start)

		observability.Commit().OnCommit(ctx, kind, sceneID, key, elapsed, err)
		if err != nil {
			c.logger.Warn("commit failed", "kind", kind, "scene", sceneID, "token", key, "err", err)
		} else {
			c.logger.Debug("committed", "kind", kind, "scene", sceneID, "token", key, "took", elapsed.Round(time.Millisecond))
		}

		c.mu.Lock()
		onDone := c.onDone
		c.mu.Unlock()
		if onDone != nil {
			onDone(Result{Kind: kind, SceneID: sceneID, Key: key, Err: err})
		}
	}()
}
