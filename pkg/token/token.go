package token

import (
	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/geom"
)

// Kind distinguishes characters from drawn areas.
type Kind string

const (
	KindCharacter Kind = "character"
	KindArea      Kind = "area"
)

// Token is one piece on the map. Position and Size are in world units.
type Token struct {
	Key      string    `json:"key" bson:"key"`
	Scene    string    `json:"scene" bson:"scene"`
	Name     string    `json:"name,omitempty" bson:"name,omitempty"`
	Kind     Kind      `json:"kind" bson:"kind"`
	Position geom.Vec  `json:"position" bson:"position"`
	Size     *geom.Vec `json:"size,omitempty" bson:"size,omitempty"`
	Visible  bool      `json:"visible" bson:"visible"`
}

// Extent returns the token's size, defaulting to one cell when unset.
func (t Token) Extent(cellSize float64) geom.Vec {
	if t.Size == nil {
		return geom.Both(cellSize)
	}
	return *t.Size
}

// Bounds returns the world-space bounding rect used for hit testing.
func (t Token) Bounds(cellSize float64) geom.Rect {
	return geom.RectFrom(geom.PositionSize{Position: t.Position, Size: t.Extent(cellSize)})
}

// Validate checks identifiers and coordinates before a token is stored.
func (t Token) Validate() error {
	if err := bmerrors.ValidateSceneID(t.Scene); err != nil {
		return err
	}
	if err := bmerrors.ValidateTokenKey(t.Key); err != nil {
		return err
	}
	if err := bmerrors.ValidateCoordinate("position", t.Position.X, t.Position.Y); err != nil {
		return err
	}
	if t.Size != nil {
		if err := bmerrors.ValidateCoordinate("size", t.Size.X, t.Size.Y); err != nil {
			return err
		}
		if t.Size.X < 0 || t.Size.Y < 0 {
			return bmerrors.New(bmerrors.ErrCodeInvalidToken, "token %s has a negative size", t.Key)
		}
	}
	switch t.Kind {
	case KindCharacter, KindArea:
	default:
		return bmerrors.New(bmerrors.ErrCodeInvalidToken, "token %s has unknown kind %q", t.Key, t.Kind)
	}
	return nil
}

// Scene is the read-only map configuration the engine consumes.
type Scene struct {
	ID       string  `json:"id" bson:"_id"`
	Name     string  `json:"name,omitempty" bson:"name,omitempty"`
	CellSize float64 `json:"cellSize" bson:"cellSize"`

	// Columns and Rows size the map in cells. Zero means unbounded.
	Columns int `json:"columns,omitempty" bson:"columns,omitempty"`
	Rows    int `json:"rows,omitempty" bson:"rows,omitempty"`
}

// Validate requires a usable ID and a positive cell size.
func (s Scene) Validate() error {
	if err := bmerrors.ValidateSceneID(s.ID); err != nil {
		return err
	}
	if err := bmerrors.ValidateCellSize(s.CellSize); err != nil {
		return err
	}
	if s.Columns < 0 || s.Rows < 0 {
		return bmerrors.New(bmerrors.ErrCodeInvalidScene, "scene %s has negative dimensions", s.ID)
	}
	return nil
}

// Bounds returns the world rect covered by the grid, and false when the scene
// is unbounded.
func (s Scene) Bounds() (geom.Rect, bool) {
	if s.Columns == 0 || s.Rows == 0 {
		return geom.Rect{}, false
	}
	return geom.R(0, 0, float64(s.Columns)*s.CellSize, float64(s.Rows)*s.CellSize), true
}
