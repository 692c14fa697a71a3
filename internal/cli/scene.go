package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/grid"
	"github.com/matzehuels/battlemap/pkg/token"
)

// importConcurrency bounds parallel scene file imports.
const importConcurrency = 4

// sceneCommand creates the scene command with subcommands.
func (c *CLI) sceneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Manage scenes in the configured store",
	}

	cmd.AddCommand(c.sceneImportCommand())
	cmd.AddCommand(c.sceneShowCommand())
	cmd.AddCommand(c.sceneMoveCommand())
	cmd.AddCommand(c.sceneExportCommand())

	return cmd
}

func (c *CLI) sceneImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Load scene files into the store",
		Long: `Load one or more TOML scene files into the configured store.

Existing scenes and tokens with the same IDs are replaced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requirePersistentStore("scene import"); err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := c.openStoreWithSpinner(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()

			prog := newProgress(loggerFromContext(ctx))
			if err := importScenes(ctx, out, store, args); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Imported %d scene file(s)", len(args)))
			printNextStep(out, "Open a scene", appName+" view --scene <id>")
			return nil
		},
	}
}

// importScenes decodes and seeds every file concurrently, then reports each
// imported scene to w in argument order.
func importScenes(ctx context.Context, w io.Writer, store token.Store, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	lines := make([]string, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			sc, tokens, err := token.LoadSceneFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := token.Seed(ctx, store, sc, tokens); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			lines[i] = fmt.Sprintf("%s %s", sc.ID, StyleDim.Render(fmt.Sprintf("(%d tokens)", len(tokens))))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, line := range lines {
		printSuccess(w, "%s", line)
	}
	return nil
}

func (c *CLI) sceneShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <scene>",
		Short: "List a scene's tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requirePersistentStore("scene show"); err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			store, err := c.openStoreWithSpinner(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()

			sc, err := store.Scene(ctx, args[0])
			if err != nil {
				return fmt.Errorf("scene %s: %w", args[0], err)
			}
			tokens, err := store.Tokens(ctx, sc.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, StyleTitle.Render(sceneTitle(sc)))
			printKeyValue(out, "Cell size", StyleNumber.Render(strconv.FormatFloat(sc.CellSize, 'g', -1, 64)))
			if r, ok := sc.Bounds(); ok {
				printKeyValue(out, "Grid", fmt.Sprintf("%d × %d cells (%s)", sc.Columns, sc.Rows, r))
			}
			fmt.Fprintln(out, renderTokenTable(sc, tokens))
			return nil
		},
	}
}

func sceneTitle(sc token.Scene) string {
	if sc.Name == "" {
		return sc.ID
	}
	return fmt.Sprintf("%s (%s)", sc.Name, sc.ID)
}

// renderTokenTable formats tokens with their grid cell and size.
func renderTokenTable(sc token.Scene, tokens []token.Token) string {
	rows := make([][]string, 0, len(tokens))
	for _, t := range tokens {
		col, row := grid.ToCell(t.Position, sc.CellSize)
		ext := t.Extent(sc.CellSize)
		visible := "✓"
		if !t.Visible {
			visible = ""
		}
		rows = append(rows, []string{
			t.Key,
			t.Name,
			string(t.Kind),
			t.Position.String(),
			fmt.Sprintf("%d,%d", col, row),
			fmt.Sprintf("%d×%d", grid.Cells(ext.X, sc.CellSize), grid.Cells(ext.Y, sc.CellSize)),
			visible,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Name", "Kind", "Position", "Cell", "Cells", "Visible").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(tokens) && !tokens[row].Visible {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) sceneMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <scene> <token> <x> <y>",
		Short: "Move a token, snapped to the grid",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requirePersistentStore("scene move"); err != nil {
				return err
			}
			ctx := cmd.Context()
			pos, err := parsePoint(args[2], args[3])
			if err != nil {
				return err
			}

			store, err := c.openStoreWithSpinner(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()

			sc, err := store.Scene(ctx, args[0])
			if err != nil {
				return fmt.Errorf("scene %s: %w", args[0], err)
			}
			snapped := grid.Round(pos, sc.CellSize)
			if err := store.UpdatePosition(ctx, sc.ID, args[1], snapped); err != nil {
				return fmt.Errorf("token %s: %w", args[1], err)
			}
			printSuccess(cmd.OutOrStdout(), "Moved %s to %s", args[1], StyleHighlight.Render(snapped.String()))
			if !snapped.Equal(pos) {
				printDetail(cmd.OutOrStdout(), "snapped from %s", pos)
			}
			return nil
		},
	}
}

func parsePoint(xs, ys string) (geom.Vec, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geom.Vec{}, bmerrors.Wrap(bmerrors.ErrCodeInvalidInput, err, "invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geom.Vec{}, bmerrors.Wrap(bmerrors.ErrCodeInvalidInput, err, "invalid y %q", ys)
	}
	if err := bmerrors.ValidateCoordinate("position", x, y); err != nil {
		return geom.Vec{}, err
	}
	return geom.V(x, y), nil
}

func (c *CLI) sceneExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <scene> <file>",
		Short: "Write a scene and its tokens to a TOML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requirePersistentStore("scene export"); err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := c.openStoreWithSpinner(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()

			sc, err := store.Scene(ctx, args[0])
			if err != nil {
				return fmt.Errorf("scene %s: %w", args[0], err)
			}
			tokens, err := store.Tokens(ctx, sc.ID)
			if err != nil {
				return err
			}
			if err := token.WriteSceneFile(args[1], sc, tokens); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Exported %s", sc.ID)
			printFile(out, args[1])
			return nil
		},
	}
}
