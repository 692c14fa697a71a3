package token

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/battlemap/pkg/geom"
)

// MemoryStore keeps scenes and tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	scenes map[string]Scene
	tokens map[string]map[string]Token
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scenes: make(map[string]Scene),
		tokens: make(map[string]map[string]Token),
	}
}

func (s *MemoryStore) Scene(ctx context.Context, id string) (Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scenes[id]
	if !ok {
		return Scene{}, ErrSceneNotFound
	}
	return sc, nil
}

func (s *MemoryStore) PutScene(ctx context.Context, sc Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scenes[sc.ID] = sc
	if s.tokens[sc.ID] == nil {
		s.tokens[sc.ID] = make(map[string]Token)
	}
	return nil
}

func (s *MemoryStore) Tokens(ctx context.Context, sceneID string) ([]Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.scenes[sceneID]; !ok {
		return nil, ErrSceneNotFound
	}
	out := make([]Token, 0, len(s.tokens[sceneID]))
	for _, t := range s.tokens[sceneID] {
		out = append(out, cloneToken(t))
	}
	sortByKey(out)
	return out, nil
}

func (s *MemoryStore) PutToken(ctx context.Context, t Token) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scenes[t.Scene]; !ok {
		return ErrSceneNotFound
	}
	s.tokens[t.Scene][t.Key] = cloneToken(t)
	return nil
}

func (s *MemoryStore) UpdatePosition(ctx context.Context, sceneID, key string, pos geom.Vec) error {
	return s.update(sceneID, key, func(t *Token) { t.Position = pos })
}

func (s *MemoryStore) UpdateVisibility(ctx context.Context, sceneID, key string, visible bool) error {
	return s.update(sceneID, key, func(t *Token) { t.Visible = visible })
}

func (s *MemoryStore) update(sceneID, key string, fn func(*Token)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[sceneID][key]
	if !ok {
		return ErrTokenNotFound
	}
	fn(&t)
	s.tokens[sceneID][key] = t
	return nil
}

func (s *MemoryStore) DeleteToken(ctx context.Context, sceneID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens[sceneID], key)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// cloneToken copies the Size pointer so callers cannot alias stored state.
func cloneToken(t Token) Token {
	if t.Size != nil {
		size := *t.Size
		t.Size = &size
	}
	return t
}

func sortByKey(ts []Token) {
	slices.SortFunc(ts, func(a, b Token) int { return cmp.Compare(a.Key, b.Key) })
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
