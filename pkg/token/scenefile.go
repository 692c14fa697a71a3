package token

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/geom"
)

// sceneFile is the TOML layout of a scene file:
//
//	[scene]
//	id = "crypt"
//	cell_size = 50
//
//	[[token]]
//	key = "fighter"
//	x = 100
//	y = 150
type sceneFile struct {
	Scene  sceneHeader `toml:"scene"`
	Tokens []tokenRow  `toml:"token"`
}

type sceneHeader struct {
	ID       string  `toml:"id"`
	Name     string  `toml:"name,omitempty"`
	CellSize float64 `toml:"cell_size"`
	Columns  int     `toml:"columns,omitempty"`
	Rows     int     `toml:"rows,omitempty"`
}

type tokenRow struct {
	Key    string  `toml:"key"`
	Name   string  `toml:"name,omitempty"`
	Kind   Kind    `toml:"kind,omitempty"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width,omitempty"`
	Height float64 `toml:"height,omitempty"`
	Hidden bool    `toml:"hidden,omitempty"`
}

// DecodeScene reads a TOML scene file. Tokens default to the character kind,
// visible, one cell in size.
func DecodeScene(r io.Reader) (Scene, []Token, error) {
	var f sceneFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return Scene{}, nil, bmerrors.Wrap(bmerrors.ErrCodeInvalidScene, err, "parse scene file")
	}

	sc := Scene{
		ID:       f.Scene.ID,
		Name:     f.Scene.Name,
		CellSize: f.Scene.CellSize,
		Columns:  f.Scene.Columns,
		Rows:     f.Scene.Rows,
	}
	if err := sc.Validate(); err != nil {
		return Scene{}, nil, err
	}

	tokens := make([]Token, 0, len(f.Tokens))
	seen := make(map[string]bool, len(f.Tokens))
	for _, row := range f.Tokens {
		t := Token{
			Key:      row.Key,
			Scene:    sc.ID,
			Name:     row.Name,
			Kind:     row.Kind,
			Position: geom.V(row.X, row.Y),
			Visible:  !row.Hidden,
		}
		if t.Kind == "" {
			t.Kind = KindCharacter
		}
		if row.Width != 0 || row.Height != 0 {
			size := geom.V(row.Width, row.Height)
			t.Size = &size
		}
		if err := t.Validate(); err != nil {
			return Scene{}, nil, err
		}
		if seen[t.Key] {
			return Scene{}, nil, bmerrors.New(bmerrors.ErrCodeInvalidToken, "duplicate token key %q", t.Key)
		}
		seen[t.Key] = true
		tokens = append(tokens, t)
	}
	sortByKey(tokens)
	return sc, tokens, nil
}

// LoadSceneFile decodes the scene file at path.
func LoadSceneFile(path string) (Scene, []Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()
	return DecodeScene(f)
}

// EncodeScene writes sc and tokens in the scene file layout.
func EncodeScene(w io.Writer, sc Scene, tokens []Token) error {
	f := sceneFile{
		Scene: sceneHeader{
			ID:       sc.ID,
			Name:     sc.Name,
			CellSize: sc.CellSize,
			Columns:  sc.Columns,
			Rows:     sc.Rows,
		},
		Tokens: make([]tokenRow, 0, len(tokens)),
	}
	for _, t := range tokens {
		row := tokenRow{
			Key:    t.Key,
			Name:   t.Name,
			Kind:   t.Kind,
			X:      t.Position.X,
			Y:      t.Position.Y,
			Hidden: !t.Visible,
		}
		if t.Size != nil {
			row.Width, row.Height = t.Size.X, t.Size.Y
		}
		f.Tokens = append(f.Tokens, row)
	}
	return toml.NewEncoder(w).Encode(f)
}

// WriteSceneFile writes the scene file at path.
func WriteSceneFile(path string, sc Scene, tokens []Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene file: %w", err)
	}
	if err := EncodeScene(f, sc, tokens); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Seed stores the scene and all its tokens.
func Seed(ctx context.Context, store Store, sc Scene, tokens []Token) error {
	if err := store.PutScene(ctx, sc); err != nil {
		return fmt.Errorf("put scene %s: %w", sc.ID, err)
	}
	for _, t := range tokens {
		if err := store.PutToken(ctx, t); err != nil {
			return fmt.Errorf("put token %s: %w", t.Key, err)
		}
	}
	return nil
}
