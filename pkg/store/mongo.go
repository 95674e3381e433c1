package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formpath/formpath/pkg/schema"
)

// MongoStore keeps snapshots in a MongoDB collection, one document per form id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // defaults to mongodb://localhost:27017
	Database   string // defaults to "formpath"
	Collection string // defaults to "answers"
}

// mongoDoc is the stored document shape: the namespaced key as _id plus the
// snapshot envelope.
type mongoDoc struct {
	ID       string   `bson:"_id"`
	Snapshot snapshot `bson:"snapshot"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "formpath"
	}
	if cfg.Collection == "" {
		cfg.Collection = "answers"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save overwrites the snapshot for formID via upsert.
func (s *MongoStore) Save(ctx context.Context, formID string, answers schema.AnswerSet) error {
	doc := mongoDoc{ID: Key(formID), Snapshot: newSnapshot(answers)}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

// Load retrieves the snapshot for formID.
func (s *MongoStore) Load(ctx context.Context, formID string) (schema.AnswerSet, bool, error) {
	var doc mongoDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": Key(formID)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return schema.AnswerSet{}, false, nil
	}
	if err != nil {
		return schema.AnswerSet{}, false, err
	}
	return doc.Snapshot.answerSet(), true, nil
}

// Clear removes the snapshot for formID.
func (s *MongoStore) Clear(ctx context.Context, formID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": Key(formID)})
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
