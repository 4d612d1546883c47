package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// MongoStore keeps documents in a MongoDB collection with the document ID
// as _id.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = "mindtower"
	}
	if opts.Collection == "" {
		opts.Collection = "diagrams"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client:  client,
		coll:    client.Database(opts.Database).Collection(opts.Collection),
		timeout: opts.Timeout,
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*mindmap.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc mindmap.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &doc, nil
}

func (s *MongoStore) Save(ctx context.Context, doc *mindmap.Document) error {
	if err := errs.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	stamp(doc)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// listProjection fetches only what a [Summary] needs.
var listProjection = bson.M{"title": 1, "updated_at": 1, "nodes.id": 1}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(listProjection))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var docs []mindmap.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Summary, len(docs))
	for i := range docs {
		out[i] = summarize(&docs[i])
	}
	sortSummaries(out)
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
