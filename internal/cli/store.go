package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/battlemap/pkg/config"
	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/token"
	"github.com/matzehuels/battlemap/pkg/token/mongo"
	"github.com/matzehuels/battlemap/pkg/token/redis"
	"github.com/matzehuels/battlemap/pkg/token/sqlite"
)

// openStore connects to the backend named in the config.
func (c *CLI) openStore(ctx context.Context) (token.Store, error) {
	cfg := c.cfg.Store
	logger := loggerFromContext(ctx)

	var (
		store token.Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		store = token.NewMemoryStore()
	case config.BackendRedis:
		store, err = redis.NewStore(ctx, redis.Config{Addr: cfg.RedisAddr})
	case config.BackendMongo:
		store, err = mongo.NewStore(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case config.BackendSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, bmerrors.New(bmerrors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, bmerrors.Wrap(bmerrors.ErrCodeStoreUnavailable, err, "open %s store", cfg.Backend)
	}
	logger.Debug("opened store", "backend", cfg.Backend)
	return store, nil
}

// openStoreWithSpinner opens the store behind a spinner drawn on w for slow
// remote backends.
func (c *CLI) openStoreWithSpinner(ctx context.Context, w io.Writer) (token.Store, error) {
	if c.cfg.Store.Backend == config.BackendMemory {
		return c.openStore(ctx)
	}
	spinner := newSpinnerTo(ctx, w, fmt.Sprintf("Connecting to %s...", c.cfg.Store.Backend))
	spinner.Start()
	store, err := c.openStore(ctx)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Could not reach %s", c.cfg.Store.Backend))
		return nil, err
	}
	spinner.Stop()
	return store, nil
}

// warnEphemeral reminds the user that writes to the memory backend vanish
// when the process exits.
func (c *CLI) warnEphemeral(w io.Writer) {
	if c.cfg.Store.Backend == config.BackendMemory {
		printWarning(w, "store.backend is %q; changes are lost on exit", config.BackendMemory)
	}
}

// requirePersistentStore rejects commands that need a store outliving the
// process. The memory backend starts empty on every run.
func (c *CLI) requirePersistentStore(command string) error {
	if c.cfg.Store.Backend != config.BackendMemory {
		return nil
	}
	return bmerrors.New(bmerrors.ErrCodeUnsupported,
		"%s needs a persistent store; set store.backend to %q, %q or %q, or open a file directly with %q",
		command, config.BackendSQLite, config.BackendRedis, config.BackendMongo, appName+" view <file>")
}
