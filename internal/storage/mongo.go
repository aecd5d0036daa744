package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"design2prompt/internal/domain"
)

const (
	mongoLayoutCollection = "layout_documents"
	mongoOpTimeout        = 5 * time.Second
)

// mongoLayout is the stored shape. The document stays JSON so StyleValue
// keeps its tagged encoding.
type mongoLayout struct {
	Namespace string    `bson:"_id"`
	Document  string    `bson:"document"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoLayoutStore implements domain.LayoutDocumentStore on a MongoDB
// collection, one document per namespace.
type MongoLayoutStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoLayoutStore connects to uri and verifies the server is reachable.
func NewMongoLayoutStore(ctx context.Context, uri, database string) (*MongoLayoutStore, error) {
	if database == "" {
		database = "design2prompt"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoLayoutStore{
		client: client,
		coll:   client.Database(database).Collection(mongoLayoutCollection),
	}, nil
}

func (s *MongoLayoutStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoLayoutStore) find(namespace string, projection bson.D) (*mongoLayout, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	var row mongoLayout
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: namespace}}, opts).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("layout %q: %w", namespace, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find layout: %w", err)
	}
	return &row, nil
}

func (s *MongoLayoutStore) LoadLayout(namespace string) (*domain.LayoutDocument, error) {
	row, err := s.find(namespace, nil)
	if err != nil {
		return nil, err
	}
	var doc domain.LayoutDocument
	if err := json.Unmarshal([]byte(row.Document), &doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &doc, nil
}

func (s *MongoLayoutStore) SaveLayout(namespace string, doc *domain.LayoutDocument) error {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	row := mongoLayout{Namespace: namespace, Document: string(data), UpdatedAt: doc.UpdatedAt}
	_, err = s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: namespace}}, row, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save layout: %w", err)
	}
	return nil
}

func (s *MongoLayoutStore) LayoutUpdatedAt(namespace string) (time.Time, error) {
	row, err := s.find(namespace, bson.D{{Key: "updatedAt", Value: 1}})
	if err != nil {
		return time.Time{}, err
	}
	return row.UpdatedAt, nil
}
