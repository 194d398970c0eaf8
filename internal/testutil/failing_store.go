package testutil

import (
	"context"
	"sync/atomic"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Size(ctx context.Context) (int64, error)
}

// FailingStore wraps a key-value store and injects Err into Set calls.
// With FailOn > 0 only the Nth Set fails (counted from 1); with FailOn == 0
// every Set fails. FailReads makes Get fail as well. Deletes and Size pass
// through.
type FailingStore struct {
	Store     kvStore
	FailOn    int32
	FailReads bool
	Err       error

	sets atomic.Int32
}

func (f *FailingStore) Get(ctx context.Context, key string) (string, error) {
	if f.FailReads {
		return "", f.Err
	}
	return f.Store.Get(ctx, key)
}

func (f *FailingStore) Set(ctx context.Context, key, value string) error {
	n := f.sets.Add(1)
	if f.FailOn == 0 || n == f.FailOn {
		return f.Err
	}
	return f.Store.Set(ctx, key, value)
}

func (f *FailingStore) Delete(ctx context.Context, key string) error {
	return f.Store.Delete(ctx, key)
}

func (f *FailingStore) Size(ctx context.Context) (int64, error) {
	return f.Store.Size(ctx)
}

// Sets returns how many Set calls have been made.
func (f *FailingStore) Sets() int {
	return int(f.sets.Load())
}
