package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type sessionDocument struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// SessionStore implements session.Store on a MongoDB collection.
// A TTL index on expires_at lets the server purge old documents; the
// purge runs about once a minute, so reads also filter on expires_at.
type SessionStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewSessionStore uses coll as is. Call EnsureIndexes once at startup.
func NewSessionStore(coll *mongo.Collection) *SessionStore {
	return &SessionStore{coll: coll, now: time.Now}
}

// NewSessionStoreFromConfig picks the collection named in cfg and creates
// its TTL index.
func NewSessionStoreFromConfig(ctx context.Context, client *mongo.Client, cfg Config) (*SessionStore, error) {
	s := NewSessionStore(client.Database(cfg.Database).Collection(cfg.Collection))
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the expires_at TTL index if it does not exist.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Join(ErrFailedToCreateIndex, err)
	}
	return nil
}

// Get returns session.ErrNotFound for missing and expired documents.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	filter := bson.D{
		{Key: "_id", Value: key},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now().UTC()}}},
	}

	var doc sessionDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}
	return doc.Data, nil
}

// Set upserts the document and moves its expiry to now+ttl.
func (s *SessionStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}

	doc := sessionDocument{
		ID:        key,
		Data:      data,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the document if present.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}
