package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/netloom/pkg/errors"
)

// MongoConfig configures the MongoDB artifact store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

const (
	defaultMongoDatabase   = "netloom"
	defaultMongoCollection = "artifacts"
)

// MongoStore keeps artifacts as documents in a MongoDB collection, one
// document per artifact name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store requires a connection uri")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	db := cfg.Database
	if db == "" {
		db = defaultMongoDatabase
	}
	coll := cfg.Collection
	if coll == "" {
		coll = defaultMongoCollection
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(coll),
	}, nil
}

// artifactDocument is the collection schema. The payload is projected out
// of listings.
type artifactDocument struct {
	Name     string    `bson:"name"`
	Data     []byte    `bson:"data"`
	Size     int64     `bson:"size"`
	Modified time.Time `bson:"modified"`
}

// Write upserts the artifact document keyed by name.
func (s *MongoStore) Write(ctx context.Context, name string, data []byte) error {
	if err := errors.ValidateArtifactName(name); err != nil {
		return err
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": artifactDocument{
			Name:     name,
			Data:     data,
			Size:     int64(len(data)),
			Modified: time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "upsert artifact %s", name)
	}
	return nil
}

// List returns metadata for all stored artifacts, sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]Artifact, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "name", Value: 1}}).
			SetProjection(bson.M{"data": 0}),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list artifacts")
	}

	var docs []artifactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode artifacts")
	}

	artifacts := make([]Artifact, 0, len(docs))
	for _, doc := range docs {
		artifacts = append(artifacts, Artifact{
			Name:     doc.Name,
			Size:     doc.Size,
			Modified: doc.Modified,
		})
	}
	return artifacts, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "disconnect from mongodb")
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
