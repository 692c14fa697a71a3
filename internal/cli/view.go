package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/battlemap/pkg/board"
	"github.com/matzehuels/battlemap/pkg/config"
	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/observability"
	"github.com/matzehuels/battlemap/pkg/token"
)

// viewOpts holds flags for the view command.
type viewOpts struct {
	sceneID string
	gm      bool
}

// viewCommand creates the interactive terminal map command.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [scene-file]",
		Short: "Open a scene in the interactive terminal map",
		Long: `Open a scene in the interactive terminal map.

With a scene file, the file is loaded into the store first and its scene is
shown. Otherwise --scene names a scene already in the store.

Left-drag selects tokens or moves the selection, right-drag pans and the
wheel zooms around the pointer. Moves snap to the grid when released.`,
		Example: `  battlemap view crypt.toml
  battlemap view --scene crypt --gm`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runView(cmd, file, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sceneID, "scene", "s", "", "scene ID to open")
	cmd.Flags().BoolVar(&opts.gm, "gm", false, "game master view: show and select hidden tokens")

	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, file string, opts viewOpts) error {
	if file == "" && opts.sceneID == "" {
		return bmerrors.New(bmerrors.ErrCodeInvalidInput, "need a scene file or --scene")
	}
	if file == "" {
		if err := c.requirePersistentStore("view --scene"); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	store, err := c.openStoreWithSpinner(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer store.Close()

	sceneID := opts.sceneID
	if file != "" {
		sc, tokens, err := token.LoadSceneFile(file)
		if err != nil {
			return err
		}
		if err := token.Seed(ctx, store, sc, tokens); err != nil {
			return err
		}
		sceneID = sc.ID
	}

	sc, err := store.Scene(ctx, sceneID)
	if err != nil {
		return fmt.Errorf("scene %s: %w", sceneID, err)
	}

	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	logPath := filepath.Join(stateDir, viewLogFile)
	logger, logFile, err := newFileLogger(logPath, c.Logger.GetLevel())
	if err != nil {
		return err
	}
	defer logFile.Close()
	c.Logger.Debug("view logging to file", "path", logPath)
	if registerLogHooks(logger) {
		defer observability.Reset()
	}

	committer := token.NewCommitter(store, logger, c.cfg.Store.CommitTimeout.Duration)
	b := board.New(sc, committer, board.Options{
		Camera:        c.cfg.CameraOptions(),
		DragThreshold: c.cfg.Gesture.DragThreshold,
		IncludeHidden: opts.gm,
		Logger:        logger,
	})

	model := NewMapModel(ctx, b, store, logger)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	committer.OnDone(func(r token.Result) { program.Send(commitMsg(r)) })

	logger.Info("opened scene", "scene", sc.ID, "backend", c.cfg.Store.Backend, "gm", opts.gm)
	_, runErr := program.Run()

	// Let in-flight writes land before the store closes.
	committer.OnDone(nil)
	committer.Wait()

	if runErr != nil {
		return runErr
	}
	printSuccess(cmd.OutOrStdout(), "Closed %s", sceneTitle(sc))
	return nil
}
