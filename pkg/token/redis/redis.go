// Package redis stores scenes and tokens in Redis.
//
// Layout:
//
//	battlemap:scene:{id}    string, JSON-encoded scene
//	battlemap:tokens:{id}   hash, token key -> JSON-encoded token
//
// Position and visibility updates are optimistic transactions on the
// scene's token hash so that concurrent writers never resurrect a deleted
// token or clobber each other's fields.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/token"
)

const (
	keyPrefix = "battlemap:"

	// maxTxRetries bounds optimistic transaction retries under contention.
	maxTxRetries = 5
)

// Config configures the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store implements token.Store on a Redis server.
type Store struct {
	client *goredis.Client
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

func sceneKey(id string) string  { return keyPrefix + "scene:" + id }
func tokensKey(id string) string { return keyPrefix + "tokens:" + id }

func (s *Store) Scene(ctx context.Context, id string) (token.Scene, error) {
	raw, err := s.client.Get(ctx, sceneKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return token.Scene{}, token.ErrSceneNotFound
	}
	if err != nil {
		return token.Scene{}, fmt.Errorf("redis get scene: %w", err)
	}
	var sc token.Scene
	if err := json.Unmarshal(raw, &sc); err != nil {
		return token.Scene{}, fmt.Errorf("decode scene %s: %w", id, err)
	}
	return sc, nil
}

func (s *Store) PutScene(ctx context.Context, sc token.Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sceneKey(sc.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set scene: %w", err)
	}
	return nil
}

func (s *Store) Tokens(ctx context.Context, sceneID string) ([]token.Token, error) {
	if err := s.requireScene(ctx, sceneID); err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, tokensKey(sceneID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	return decodeTokens(fields)
}

func (s *Store) PutToken(ctx context.Context, t token.Token) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.requireScene(ctx, t.Scene); err != nil {
		return err
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, tokensKey(t.Scene), t.Key, data).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *Store) UpdatePosition(ctx context.Context, sceneID, key string, pos geom.Vec) error {
	return s.update(ctx, sceneID, key, func(t *token.Token) { t.Position = pos })
}

func (s *Store) UpdateVisibility(ctx context.Context, sceneID, key string, visible bool) error {
	return s.update(ctx, sceneID, key, func(t *token.Token) { t.Visible = visible })
}

func (s *Store) DeleteToken(ctx context.Context, sceneID, key string) error {
	if err := s.client.HDel(ctx, tokensKey(sceneID), key).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) requireScene(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, sceneKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if n == 0 {
		return token.ErrSceneNotFound
	}
	return nil
}

// update applies fn to one token inside a WATCH transaction.
func (s *Store) update(ctx context.Context, sceneID, key string, fn func(*token.Token)) error {
	hash := tokensKey(sceneID)
	txf := func(tx *goredis.Tx) error {
		raw, err := tx.HGet(ctx, hash, key).Result()
		if errors.Is(err, goredis.Nil) {
			return token.ErrTokenNotFound
		}
		if err != nil {
			return err
		}
		var t token.Token
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return fmt.Errorf("decode token %s: %w", key, err)
		}
		fn(&t)
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, hash, key, data)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, hash)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis update %s/%s: %w", sceneID, key, goredis.TxFailedErr)
}

// decodeTokens turns a token hash into tokens ordered by key.
func decodeTokens(fields map[string]string) ([]token.Token, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]token.Token, 0, len(keys))
	for _, k := range keys {
		var t token.Token
		if err := json.Unmarshal([]byte(fields[k]), &t); err != nil {
			return nil, fmt.Errorf("decode token %s: %w", k, err)
		}
		out = append(out, t)
	}
	return out, nil
}

var _ token.Store = (*Store)(nil)
