// Package sqlite stores scenes and tokens in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/token"
)

// ============================================================
// Schema
// ============================================================

const schema = `
CREATE TABLE IF NOT EXISTS scenes (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    cell_size   REAL NOT NULL,
    grid_cols   INTEGER NOT NULL DEFAULT 0,
    grid_rows   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tokens (
    scene       TEXT NOT NULL REFERENCES scenes(id) ON DELETE CASCADE,
    key         TEXT NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL,
    x           REAL NOT NULL,
    y           REAL NOT NULL,
    width       REAL,
    height      REAL,
    visible     INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (scene, key)
);
`

// ============================================================
// Store
// ============================================================

// Store implements token.Store on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Scene(ctx context.Context, id string) (token.Scene, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, cell_size, grid_cols, grid_rows
        FROM scenes
        WHERE id = ?
    `, id)

	var sc token.Scene
	if err := row.Scan(&sc.ID, &sc.Name, &sc.CellSize, &sc.Columns, &sc.Rows); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return token.Scene{}, token.ErrSceneNotFound
		}
		return token.Scene{}, err
	}
	return sc, nil
}

func (s *Store) PutScene(ctx context.Context, sc token.Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO scenes (id, name, cell_size, grid_cols, grid_rows)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            cell_size = excluded.cell_size,
            grid_cols = excluded.grid_cols,
            grid_rows = excluded.grid_rows
    `, sc.ID, sc.Name, sc.CellSize, sc.Columns, sc.Rows)
	if err != nil {
		return fmt.Errorf("put scene: %w", err)
	}
	return nil
}

func (s *Store) Tokens(ctx context.Context, sceneID string) ([]token.Token, error) {
	if err := s.requireScene(ctx, sceneID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT key, name, kind, x, y, width, height, visible
        FROM tokens
        WHERE scene = ?
        ORDER BY key
    `, sceneID)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	out := []token.Token{}
	for rows.Next() {
		var (
			t             token.Token
			kind          string
			width, height sql.NullFloat64
		)
		if err := rows.Scan(&t.Key, &t.Name, &kind, &t.Position.X, &t.Position.Y, &width, &height, &t.Visible); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		t.Scene = sceneID
		t.Kind = token.Kind(kind)
		if width.Valid && height.Valid {
			size := geom.V(width.Float64, height.Float64)
			t.Size = &size
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) PutToken(ctx context.Context, t token.Token) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.requireScene(ctx, t.Scene); err != nil {
		return err
	}

	var width, height sql.NullFloat64
	if t.Size != nil {
		width = sql.NullFloat64{Float64: t.Size.X, Valid: true}
		height = sql.NullFloat64{Float64: t.Size.Y, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO tokens (scene, key, name, kind, x, y, width, height, visible)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (scene, key) DO UPDATE SET
            name = excluded.name,
            kind = excluded.kind,
            x = excluded.x,
            y = excluded.y,
            width = excluded.width,
            height = excluded.height,
            visible = excluded.visible
    `, t.Scene, t.Key, t.Name, string(t.Kind), t.Position.X, t.Position.Y, width, height, t.Visible)
	if err != nil {
		return fmt.Errorf("put token: %w", err)
	}
	return nil
}

func (s *Store) UpdatePosition(ctx context.Context, sceneID, key string, pos geom.Vec) error {
	return s.exec1(ctx, `UPDATE tokens SET x = ?, y = ? WHERE scene = ? AND key = ?`,
		pos.X, pos.Y, sceneID, key)
}

func (s *Store) UpdateVisibility(ctx context.Context, sceneID, key string, visible bool) error {
	return s.exec1(ctx, `UPDATE tokens SET visible = ? WHERE scene = ? AND key = ?`,
		visible, sceneID, key)
}

func (s *Store) DeleteToken(ctx context.Context, sceneID, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE scene = ? AND key = ?`, sceneID, key)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// exec1 runs an update that must touch exactly one token row.
func (s *Store) exec1(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return token.ErrTokenNotFound
	}
	return nil
}

func (s *Store) requireScene(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM scenes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return token.ErrSceneNotFound
	}
	return err
}

var _ token.Store = (*Store)(nil)
