package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "freeboard"
	DefaultMongoCollection = "layouts"
)

// Mongo stores one document per workspace, keyed by _id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type layoutDoc struct {
	WorkspaceID string    `bson:"_id"`
	Payload     string    `bson:"payload"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// NewMongo connects to uri and uses database/collection, falling back to the
// defaults when they are empty.
func NewMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, connectErr(err, "mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, connectErr(err, "mongo")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &Mongo{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func filterFor(workspaceID string) bson.D {
	return bson.D{{Key: "_id", Value: workspaceID}}
}

func newLayoutDoc(workspaceID string, data []byte, now time.Time) layoutDoc {
	return layoutDoc{WorkspaceID: workspaceID, Payload: string(data), UpdatedAt: now.UTC()}
}

func (m *Mongo) Get(ctx context.Context, workspaceID string) ([]byte, error) {
	var doc layoutDoc
	err := m.coll.FindOne(ctx, filterFor(workspaceID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(workspaceID)
	}
	if err != nil {
		return nil, storageErr(Retryable(err), "read", workspaceID)
	}
	return []byte(doc.Payload), nil
}

func (m *Mongo) Put(ctx context.Context, workspaceID string, data []byte) error {
	doc := newLayoutDoc(workspaceID, data, time.Now())
	_, err := m.coll.ReplaceOne(ctx, filterFor(workspaceID), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(err, "write", workspaceID)
	}
	return nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
