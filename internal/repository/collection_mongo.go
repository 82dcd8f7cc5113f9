package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps a MongoDB collection. Documents use their string
// identifier as _id.
func NewMongoCollection[T any](db *mongo.Database, name string) Collection[T] {
	return &mongoCollection[T]{coll: db.Collection(name)}
}

func (c *mongoCollection[T]) List(ctx context.Context) ([]T, error) {
	return c.find(ctx, bson.D{})
}

func (c *mongoCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", c.coll.Name(), id, err)
	}
	return &doc, nil
}

func (c *mongoCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	if filter.empty() {
		return []T{}, nil
	}
	or := make(bson.A, 0, len(filter.Fields))
	for _, field := range filter.Fields {
		or = append(or, bson.M{field: bson.M{"$in": filter.Values}})
	}
	return c.find(ctx, bson.M{"$or": or})
}

func (c *mongoCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.coll.Name(), id, err)
	}
	return nil
}

func (c *mongoCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", c.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) find(ctx context.Context, filter any) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	result := []T{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return result, nil
}
