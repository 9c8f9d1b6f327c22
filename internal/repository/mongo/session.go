package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/domain"
)

type sessionDocument struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionStore keeps one document per session with a TTL index on updated_at
type SessionStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

// NewSessionStore connects to MongoDB and ensures the TTL index exists
func NewSessionStore(ctx context.Context, cfg config.MongoConfig, ttl time.Duration) (*SessionStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &SessionStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		ttl:    ttl,
	}

	if ttl > 0 {
		index := mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		}
		if _, err := s.coll.Indexes().CreateOne(ctx, index); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create ttl index: %w", err)
		}
	}

	return s, nil
}

func (s *SessionStore) liveFilter(extra bson.M) bson.M {
	if s.ttl > 0 {
		extra["updated_at"] = bson.M{"$gt": time.Now().Add(-s.ttl)}
	}
	return extra
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var doc sessionDocument
	err := s.coll.FindOne(ctx, s.liveFilter(bson.M{"_id": id})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return decode(doc)
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	doc := sessionDocument{
		ID:        session.ID,
		Payload:   string(data),
		CreatedAt: session.CreatedAt,
		UpdatedAt: time.Now(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": session.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	cursor, err := s.coll.Find(ctx, s.liveFilter(bson.M{}), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*domain.Session
	for cursor.Next(ctx) {
		var doc sessionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		session, err := decode(doc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, cursor.Err()
}

// PurgeExpired deletes documents the TTL monitor has not reaped yet
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	res, err := s.coll.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lte": time.Now().Add(-s.ttl)}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB
func (s *SessionStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func decode(doc sessionDocument) (*domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal([]byte(doc.Payload), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}
