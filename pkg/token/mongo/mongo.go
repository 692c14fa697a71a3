// Package mongo stores scenes and tokens in MongoDB.
//
// Scenes live in the "scenes" collection keyed by their ID. Tokens live in
// the "tokens" collection, one document per token, unique on (scene, key).
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/battlemap/pkg/geom"
	"github.com/matzehuels/battlemap/pkg/token"
)

const (
	scenesCollection = "scenes"
	tokensCollection = "tokens"

	disconnectTimeout = 5 * time.Second
)

// Config configures the MongoDB connection.
type Config struct {
	URI      string
	Database string
}

// Store implements token.Store on MongoDB.
type Store struct {
	client *mongo.Client
	scenes *mongo.Collection
	tokens *mongo.Collection
}

// NewStore connects, pings the primary and ensures the token index exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		scenes: db.Collection(scenesCollection),
		tokens: db.Collection(tokensCollection),
	}
	if _, err := s.tokens.Indexes().CreateOne(ctx, tokenIndex()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo create index: %w", err)
	}
	return s, nil
}

func tokenIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "scene", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("scene_key"),
	}
}

func sceneFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func tokenFilter(sceneID, key string) bson.D {
	return bson.D{{Key: "scene", Value: sceneID}, {Key: "key", Value: key}}
}

func setField(field string, value any) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: value}}}}
}

func (s *Store) Scene(ctx context.Context, id string) (token.Scene, error) {
	var sc token.Scene
	err := s.scenes.FindOne(ctx, sceneFilter(id)).Decode(&sc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return token.Scene{}, token.ErrSceneNotFound
	}
	if err != nil {
		return token.Scene{}, fmt.Errorf("mongo find scene: %w", err)
	}
	return sc, nil
}

func (s *Store) PutScene(ctx context.Context, sc token.Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	_, err := s.scenes.ReplaceOne(ctx, sceneFilter(sc.ID), sc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo put scene: %w", err)
	}
	return nil
}

func (s *Store) Tokens(ctx context.Context, sceneID string) ([]token.Token, error) {
	if err := s.requireScene(ctx, sceneID); err != nil {
		return nil, err
	}
	cur, err := s.tokens.Find(ctx,
		bson.D{{Key: "scene", Value: sceneID}},
		options.Find().SetSort(bson.D{{Key: "key", Value: 1}}).SetProjection(bson.D{{Key: "_id", Value: 0}}),
	)
	if err != nil {
		return nil, fmt.Errorf("mongo find tokens: %w", err)
	}
	out := []token.Token{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode tokens: %w", err)
	}
	return out, nil
}

func (s *Store) PutToken(ctx context.Context, t token.Token) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.requireScene(ctx, t.Scene); err != nil {
		return err
	}
	_, err := s.tokens.ReplaceOne(ctx, tokenFilter(t.Scene, t.Key), t, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo put token: %w", err)
	}
	return nil
}

func (s *Store) UpdatePosition(ctx context.Context, sceneID, key string, pos geom.Vec) error {
	return s.set(ctx, sceneID, key, "position", pos)
}

func (s *Store) UpdateVisibility(ctx context.Context, sceneID, key string, visible bool) error {
	return s.set(ctx, sceneID, key, "visible", visible)
}

func (s *Store) set(ctx context.Context, sceneID, key, field string, value any) error {
	res, err := s.tokens.UpdateOne(ctx, tokenFilter(sceneID, key), setField(field, value))
	if err != nil {
		return fmt.Errorf("mongo update %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return token.ErrTokenNotFound
	}
	return nil
}

func (s *Store) DeleteToken(ctx context.Context, sceneID, key string) error {
	if _, err := s.tokens.DeleteOne(ctx, tokenFilter(sceneID, key)); err != nil {
		return fmt.Errorf("mongo delete token: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) requireScene(ctx context.Context, id string) error {
	n, err := s.scenes.CountDocuments(ctx, sceneFilter(id), options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo count scenes: %w", err)
	}
	if n == 0 {
		return token.ErrSceneNotFound
	}
	return nil
}

var _ token.Store = (*Store)(nil)
