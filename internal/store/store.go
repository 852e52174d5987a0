package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// Record is anything stored in a Collection under a string key.
type Record interface {
	Key() string
}

// Collection is a flat, ordered list of records. Every backend follows
// last-write-wins semantics: there is no version check between writers in
// different processes.
type Collection[T Record] interface {
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, key string) (T, error)
	Put(ctx context.Context, rec T) error
	Delete(ctx context.Context, key string) error
	ReplaceAll(ctx context.Context, recs []T) error
}

// Mutator is implemented by collections that can run a read-modify-write
// cycle while holding their own lock.
type Mutator[T Record] interface {
	Mutate(ctx context.Context, key string, fn func(*T) error) (T, error)
}

// Update loads the record under key, applies fn and writes the result back.
// An error from fn aborts the write.
func Update[T Record](ctx context.Context, c Collection[T], key string, fn func(*T) error) (T, error) {
	if m, ok := c.(Mutator[T]); ok {
		return m.Mutate(ctx, key, fn)
	}

	var zero T
	rec, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if err := fn(&rec); err != nil {
		return zero, err
	}
	if rec.Key() != key {
		return zero, fmt.Errorf("update of %q changed its key to %q", key, rec.Key())
	}
	if err := c.Put(ctx, rec); err != nil {
		return zero, err
	}
	return rec, nil
}
