package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// Bin holds a whole collection as one JSON array, the way a flat JSON file or
// a cloud key-value bin does.
type Bin interface {
	// Load returns the stored bytes, or nil when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// BinCollection implements Collection on top of a Bin. Each mutation is a
// full read-modify-write of the array; writers inside one process are
// serialized, writers in different processes are not.
type BinCollection[T Record] struct {
	mu  sync.Mutex
	bin Bin
}

func NewBinCollection[T Record](bin Bin) *BinCollection[T] {
	return &BinCollection[T]{bin: bin}
}

func (c *BinCollection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.bin.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bin: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode bin: %w", err)
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

func (c *BinCollection[T]) save(ctx context.Context, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode bin: %w", err)
	}
	if err := c.bin.Save(ctx, data); err != nil {
		return fmt.Errorf("save bin: %w", err)
	}
	return nil
}

func indexOf[T Record](recs []T, key string) int {
	for i, rec := range recs {
		if rec.Key() == key {
			return i
		}
	}
	return -1
}

func (c *BinCollection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *BinCollection[T]) Get(ctx context.Context, key string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(recs, key)
	if i < 0 {
		return zero, ErrNotFound
	}
	return recs[i], nil
}

func (c *BinCollection[T]) Put(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(recs, rec.Key()); i >= 0 {
		recs[i] = rec
	} else {
		recs = append(recs, rec)
	}
	return c.save(ctx, recs)
}

func (c *BinCollection[T]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(recs, key)
	if i < 0 {
		return ErrNotFound
	}
	recs = append(recs[:i], recs[i+1:]...)
	return c.save(ctx, recs)
}

func (c *BinCollection[T]) ReplaceAll(ctx context.Context, recs []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, recs)
}

func (c *BinCollection[T]) Mutate(ctx context.Context, key string, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(recs, key)
	if i < 0 {
		return zero, ErrNotFound
	}
	rec := recs[i]
	if err := fn(&rec); err != nil {
		return zero, err
	}
	if rec.Key() != key {
		return zero, fmt.Errorf("update of %q changed its key to %q", key, rec.Key())
	}
	recs[i] = rec
	if err := c.save(ctx, recs); err != nil {
		return zero, err
	}
	return rec, nil
}

// MemoryBin keeps the bytes in process memory. Used for tests and local runs.
type MemoryBin struct {
	mu   sync.Mutex
	data []byte
}

func (b *MemoryBin) Load(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBin) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	return nil
}
