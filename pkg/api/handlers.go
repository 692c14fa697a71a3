package api

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/battlemap/pkg/camera"
	"github.com/matzehuels/battlemap/pkg/drawarea"
	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/grid"
	"github.com/matzehuels/battlemap/pkg/httputil"
	"github.com/matzehuels/battlemap/pkg/selection"
	"github.com/matzehuels/battlemap/pkg/token"
)

// =============================================================================
// Request and response bodies
// =============================================================================

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

type areaRequest struct {
	Start geom.Vec `json:"start"`
	End   geom.Vec `json:"end"`

	// Name labels a drawn area.
	Name string `json:"name,omitempty"`

	// IncludeHidden lets a selection reach hidden tokens.
	IncludeHidden bool `json:"includeHidden,omitempty"`
}

type selectResponse struct {
	Keys []string `json:"keys"`
}

type zoomRequest struct {
	Offset   geom.Vec `json:"offset"`
	ZoomTick int      `json:"zoomTick"`
	Delta    int      `json:"delta"`
	Pivot    geom.Vec `json:"pivot"`
}

type zoomResponse struct {
	Offset   geom.Vec `json:"offset"`
	ZoomTick int      `json:"zoomTick"`
	Scale    float64  `json:"scale"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scene(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sc)
}

func (s *Server) listTokens(w http.ResponseWriter, r *http.Request) {
	sceneID := chi.URLParam(r, "scene")
	if err := bmerrors.ValidateSceneID(sceneID); err != nil {
		s.fail(w, r, err)
		return
	}
	tokens, err := s.store.Tokens(r.Context(), sceneID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokens)
}

func (s *Server) putPosition(w http.ResponseWriter, r *http.Request) {
	sc, key, err := s.sceneAndKey(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var pos geom.Vec
	if err := httputil.DecodeJSON(r, &pos); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := bmerrors.ValidateCoordinate("position", pos.X, pos.Y); err != nil {
		s.fail(w, r, err)
		return
	}

	snapped := grid.Round(pos, sc.CellSize)
	if err := s.store.UpdatePosition(r.Context(), sc.ID, key, snapped); err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapped)
}

func (s *Server) putVisibility(w http.ResponseWriter, r *http.Request) {
	sc, key, err := s.sceneAndKey(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body visibilityRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateVisibility(r.Context(), sc.ID, key, body.Visible); err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, body)
}

// selectArea runs one drag-select over the scene's tokens.
func (s *Server) selectArea(w http.ResponseWriter, r *http.Request) {
	sc, body, err := s.areaInput(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tokens, err := s.store.Tokens(r.Context(), sc.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sel := selection.New[string]()
	sel.OnDragStart(body.Start)
	sel.OnDrag(body.End)
	sel.HitTest(func(yield func(string, geom.Rect) bool) {
		for _, t := range tokens {
			if !t.Visible && !body.IncludeHidden {
				continue
			}
			if !yield(t.Key, t.Bounds(sc.CellSize)) {
				return
			}
		}
	})
	sel.OnDragEnd(body.End)

	keys := sel.Selected()
	slices.Sort(keys)
	httputil.WriteJSON(w, http.StatusOK, selectResponse{Keys: keys})
}

// createArea stores an area token covering the dragged rect, snapped outward
// to whole cells.
func (s *Server) createArea(w http.ResponseWriter, r *http.Request) {
	sc, body, err := s.areaInput(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var drawn geom.Rect
	area := drawarea.New(func(rect geom.Rect) { drawn = rect })
	area.OnDragStart(body.Start)
	area.OnDrag(body.End)
	area.OnDragEnd(body.End)

	rect := grid.SnapArea(drawn, sc.CellSize)
	size := rect.Size
	t := token.Token{
		Key:      s.opts.NewKey(),
		Scene:    sc.ID,
		Name:     body.Name,
		Kind:     token.KindArea,
		Position: rect.Position,
		Size:     &size,
		Visible:  true,
	}
	if err := s.store.PutToken(r.Context(), t); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/scenes/"+sc.ID+"/tokens/"+t.Key)
	httputil.WriteJSON(w, http.StatusCreated, t)
}

// zoom applies one zoom step for clients that keep their own camera.
func (s *Server) zoom(w http.ResponseWriter, r *http.Request) {
	var body zoomRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	for name, v := range map[string]geom.Vec{"offset": body.Offset, "pivot": body.Pivot} {
		if err := bmerrors.ValidateCoordinate(name, v.X, v.Y); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	cam := camera.Restore(s.opts.Camera, body.Offset, body.ZoomTick).ZoomedBy(body.Delta, body.Pivot)
	httputil.WriteJSON(w, http.StatusOK, zoomResponse{
		Offset:   cam.Offset,
		ZoomTick: cam.ZoomTick,
		Scale:    cam.Scale(),
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) scene(r *http.Request) (token.Scene, error) {
	id := chi.URLParam(r, "scene")
	if err := bmerrors.ValidateSceneID(id); err != nil {
		return token.Scene{}, err
	}
	return s.store.Scene(r.Context(), id)
}

func (s *Server) sceneAndKey(r *http.Request) (token.Scene, string, error) {
	key := chi.URLParam(r, "key")
	if err := bmerrors.ValidateTokenKey(key); err != nil {
		return token.Scene{}, "", err
	}
	sc, err := s.scene(r)
	return sc, key, err
}

func (s *Server) areaInput(r *http.Request) (token.Scene, areaRequest, error) {
	var body areaRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		return token.Scene{}, body, err
	}
	if err := bmerrors.ValidateCoordinate("start", body.Start.X, body.Start.Y); err != nil {
		return token.Scene{}, body, err
	}
	if err := bmerrors.ValidateCoordinate("end", body.End.X, body.End.Y); err != nil {
		return token.Scene{}, body, err
	}
	sc, err := s.scene(r)
	return sc, body, err
}

// fail maps store errors onto error codes and writes the response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	if bmerrors.GetCode(err) == bmerrors.ErrCodeInternal || bmerrors.GetCode(err) == bmerrors.ErrCodeStoreUnavailable {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	httputil.WriteError(w, err)
}

func classify(err error) error {
	switch {
	case bmerrors.GetCode(err) != "":
		return err
	case errors.Is(err, token.ErrSceneNotFound):
		return bmerrors.Wrap(bmerrors.ErrCodeSceneNotFound, err, "scene not found")
	case errors.Is(err, token.ErrTokenNotFound):
		return bmerrors.Wrap(bmerrors.ErrCodeTokenNotFound, err, "token not found")
	case errors.Is(err, context.DeadlineExceeded):
		return bmerrors.Wrap(bmerrors.ErrCodeTimeout, err, "store timed out")
	default:
		return bmerrors.Wrap(bmerrors.ErrCodeStoreUnavailable, err, "store unavailable")
	}
}
