package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/wireframe/pkg/errors"
)

// Default MongoDB settings.
const (
	DefaultMongoDatabase   = "wireframe"
	DefaultMongoCollection = "widgets"
	defaultMongoTimeout    = 10 * time.Second
)

// MongoSource reads widgets from a MongoDB collection holding one document
// per widget: {name, images, html}. Widgets are ordered by name.
type MongoSource struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

func (s MongoSource) withDefaults() MongoSource {
	if s.Database == "" {
		s.Database = DefaultMongoDatabase
	}
	if s.Collection == "" {
		s.Collection = DefaultMongoCollection
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultMongoTimeout
	}
	return s
}

func (s MongoSource) String() string {
	s = s.withDefaults()
	return fmt.Sprintf("mongodb:%s.%s", s.Database, s.Collection)
}

// Load implements Source.
func (s MongoSource) Load(ctx context.Context) (*Catalog, error) {
	s = s.withDefaults()
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var widgets []Widget
	err := s.withCollection(ctx, func(coll *mongo.Collection) error {
		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cur, err := coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &widgets)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestLoad, err, "load %s", s)
	}
	return New(widgets...), nil
}

// Publish upserts every widget of c into the collection, keyed by name.
// Widgets already in the collection but absent from c are left alone.
func (s MongoSource) Publish(ctx context.Context, c *Catalog) (int, error) {
	s = s.withDefaults()
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	n := 0
	err := s.withCollection(ctx, func(coll *mongo.Collection) error {
		for _, w := range c.Widgets() {
			_, err := coll.UpdateOne(ctx,
				bson.M{"name": w.Name},
				bson.M{"$set": bson.M{"images": nonNil(w.Images), "html": nonNil(w.HTML)}},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				return fmt.Errorf("upsert %q: %w", w.Name, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return n, errors.Wrap(errors.ErrCodeNetwork, err, "publish to %s", s)
	}
	return n, nil
}

func (s MongoSource) withCollection(ctx context.Context, fn func(*mongo.Collection) error) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Disconnect(context.Background())

	return fn(client.Database(s.Database).Collection(s.Collection))
}
