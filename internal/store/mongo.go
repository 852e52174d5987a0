package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KeyFunc converts a record key into the typed value stored in _id.
type KeyFunc func(key string) (interface{}, error)

func StringKey(key string) (interface{}, error) {
	return key, nil
}

func Int64Key(key string) (interface{}, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid key %q: %w", key, err)
	}
	return id, nil
}

// MongoCollection stores one document per record, keyed by _id.
type MongoCollection[T Record] struct {
	coll  *mongo.Collection
	keyOf KeyFunc
}

func NewMongoCollection[T Record](db *mongo.Database, name string, keyOf KeyFunc) *MongoCollection[T] {
	if keyOf == nil {
		keyOf = StringKey
	}
	return &MongoCollection[T]{coll: db.Collection(name), keyOf: keyOf}
}

func (c *MongoCollection[T]) All(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recs := make([]T, 0)
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *MongoCollection[T]) Get(ctx context.Context, key string) (T, error) {
	var rec T
	id, err := c.keyOf(key)
	if err != nil {
		return rec, ErrNotFound
	}

	err = c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, ErrNotFound
	}
	return rec, err
}

func (c *MongoCollection[T]) Put(ctx context.Context, rec T) error {
	id, err := c.keyOf(rec.Key())
	if err != nil {
		return err
	}
	_, err = c.coll.ReplaceOne(ctx, bson.M{"_id": id}, rec, options.Replace().SetUpsert(true))
	return err
}

func (c *MongoCollection[T]) Delete(ctx context.Context, key string) error {
	id, err := c.keyOf(key)
	if err != nil {
		return ErrNotFound
	}

	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// maxMutateAttempts bounds the compare-and-swap retries of Mutate.
const maxMutateAttempts = 5

// ErrConflict is returned when a record kept changing under Mutate.
var ErrConflict = errors.New("record changed concurrently")

// casFilter matches a document only while every field still holds the value
// in raw.
func casFilter(raw bson.Raw) (bson.D, error) {
	elems, err := raw.Elements()
	if err != nil {
		return nil, err
	}
	filter := make(bson.D, 0, len(elems))
	for _, e := range elems {
		filter = append(filter, bson.E{Key: e.Key(), Value: e.Value()})
	}
	return filter, nil
}

// Mutate runs fn on the stored record and writes the result only if the
// document was not modified in between, retrying on a lost race.
func (c *MongoCollection[T]) Mutate(ctx context.Context, key string, fn func(*T) error) (T, error) {
	var zero T
	id, err := c.keyOf(key)
	if err != nil {
		return zero, ErrNotFound
	}

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		raw, err := c.coll.FindOne(ctx, bson.M{"_id": id}).Raw()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		if err != nil {
			return zero, err
		}

		var rec T
		if err := bson.Unmarshal(raw, &rec); err != nil {
			return zero, err
		}
		if err := fn(&rec); err != nil {
			return zero, err
		}
		if rec.Key() != key {
			return zero, fmt.Errorf("update of %q changed its key to %q", key, rec.Key())
		}

		filter, err := casFilter(raw)
		if err != nil {
			return zero, err
		}
		result, err := c.coll.ReplaceOne(ctx, filter, rec)
		if err != nil {
			return zero, err
		}
		if result.MatchedCount == 1 {
			return rec, nil
		}
	}
	return zero, fmt.Errorf("%s: %w", key, ErrConflict)
}

// ReplaceAll swaps the collection contents inside a transaction.
func (c *MongoCollection[T]) ReplaceAll(ctx context.Context, recs []T) error {
	session, err := c.coll.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	docs := make([]interface{}, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, rec)
	}

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := c.coll.DeleteMany(sessCtx, bson.M{}); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		_, err := c.coll.InsertMany(sessCtx, docs)
		return nil, err
	})
	return err
}
