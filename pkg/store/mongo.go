package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // default "definitions"
}

// MongoStore keeps definitions in a MongoDB collection, one document per
// template with the encoded definition in its data field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Data      []byte    `bson:"data,omitempty"`
	Size      int       `bson:"size"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "mongo database name is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "definitions"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeStorage, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, bderrors.Wrap(bderrors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*block.Template, error) {
	if err := bderrors.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeStorage, err, "find definition %s", id)
	}
	t, _, err := codec.Decode(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("decode definition %s: %w", id, err)
	}
	return t, nil
}

func (s *MongoStore) Put(ctx context.Context, t *block.Template) error {
	if t == nil {
		return bderrors.New(bderrors.ErrCodeInvalidInput, "nil template")
	}
	if err := bderrors.ValidateIdentifier(t.ID); err != nil {
		return err
	}
	data, err := codec.Encode(t)
	if err != nil {
		return err
	}
	doc := mongoDoc{
		ID:        t.ID,
		Kind:      t.Kind.String(),
		Data:      data,
		Size:      len(data),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return bderrors.Wrap(bderrors.ErrCodeStorage, err, "store definition %s", t.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := bderrors.ValidateIdentifier(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return bderrors.Wrap(bderrors.ErrCodeStorage, err, "delete definition %s", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeStorage, err, "list definitions")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeStorage, err, "list definitions")
	}
	out := make([]Entry, len(docs))
	for i, d := range docs {
		out[i] = Entry{ID: d.ID, Size: d.Size, UpdatedAt: d.UpdatedAt}
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
