package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moderation/pkg/models"
	"moderation/pkg/storage"
)

const flaggedColl = "flagged"

type Storage struct {
	client *mongo.Client
	dbName string
}

func New(ctx context.Context, conf *Config) (*Storage, error) {
	client, err := mongo.Connect(ctx, conf.Options())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrConnectDB, err)
	}

	s := Storage{client: client, dbName: conf.DBName}
	if err := s.createCollection(ctx, flaggedColl); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrDBNotResponding, err)
	}
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) coll() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(flaggedColl)
}

// AddFlagged inserts a flagged submission. ID and Created are generated
// when they hold zero values.
func (s *Storage) AddFlagged(ctx context.Context, f models.Flagged) (models.Flagged, error) {
	f, err := storage.Prepare(f, time.Now)
	if err != nil {
		return models.Flagged{}, err
	}

	// Mongo keeps milliseconds only.
	f.Created = f.Created.Truncate(time.Millisecond)

	if _, err := s.coll().InsertOne(ctx, f); err != nil {
		return models.Flagged{}, err
	}

	return f, nil
}

// Flagged returns the latest flagged submissions sorted by creation time, newest first.
func (s *Storage) Flagged(ctx context.Context, limit int) ([]models.Flagged, error) {
	if limit <= 0 {
		return []models.Flagged{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	flagged := []models.Flagged{}
	if err := cur.All(ctx, &flagged); err != nil {
		return nil, err
	}

	return flagged, nil
}

func (s *Storage) FlaggedByID(ctx context.Context, id uuid.UUID) (models.Flagged, error) {
	var f models.Flagged
	err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Flagged{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Flagged{}, err
	}

	return f, nil
}

// createCollection creates a collection with the given name in the database if it doesn't already exist.
func (s *Storage) createCollection(ctx context.Context, collName string) error {
	db := s.client.Database(s.dbName)
	names, err := db.ListCollectionNames(ctx, bson.M{"name": collName})
	if err != nil {
		return fmt.Errorf("failed to list collection names: %w", err)
	}

	if len(names) == 0 {
		return db.CreateCollection(ctx, collName)
	}

	return nil
}
