package cli

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/battlemap/pkg/api"
	"github.com/matzehuels/battlemap/pkg/buildinfo"
	"github.com/matzehuels/battlemap/pkg/observability"
)

// serveOpts holds flags for the serve command.
type serveOpts struct {
	addr  string
	seeds []string
}

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenes over HTTP",
		Long: `Serve the configured store as a JSON API.

Scene files passed with --seed are imported before the server starts, which
is the usual way to fill the memory backend.`,
		Example: `  battlemap serve --seed crypt.toml
  battlemap serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr == "" {
				opts.addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringArrayVar(&opts.seeds, "seed", nil, "scene file to import before serving (repeatable)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	c.warnEphemeral(out)

	store, err := c.openStoreWithSpinner(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	if len(opts.seeds) > 0 {
		if err := importScenes(ctx, out, store, opts.seeds); err != nil {
			return err
		}
	}

	if registerLogHooks(c.Logger) {
		defer observability.Reset()
	}

	srv := api.NewServer(store, api.Options{
		Camera: c.cfg.CameraOptions(),
		Logger: c.Logger,
	})
	c.Logger.Debug("starting server", "version", buildinfo.Version, "commit", buildinfo.Commit)
	printInfo(out, "Serving %s store on %s", c.cfg.Store.Backend, StyleHighlight.Render(opts.addr))

	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
