package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/storage"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type harness struct {
	clock   *testutil.FakeClock
	store   *storage.Manager
	backing storage.KeyValueStore
	ledger  LedgerService
	timer   TimerService
}

func newHarness(t *testing.T, seed ...domain.TimeEntry) *harness {
	t.Helper()
	return newHarnessOn(t, storage.NewMemoryStore(0), seed...)
}

func newHarnessOn(t *testing.T, backing storage.KeyValueStore, seed ...domain.TimeEntry) *harness {
	t.Helper()
	ctx := context.Background()
	clock := testutil.NewFakeClock(t0)
	store := storage.NewManager(backing, storage.WithClock(clock.Now))
	if len(seed) > 0 {
		require.True(t, store.SaveTimeEntries(ctx, seed))
	}
	opts := []Option{WithClock(clock.Now), WithLocation(time.UTC)}
	ledger := NewLedgerService(ctx, store, opts...)
	return &harness{
		clock:   clock,
		store:   store,
		backing: backing,
		ledger:  ledger,
		timer:   NewTimerService(ctx, store, ledger, testutil.DefaultUserID, opts...),
	}
}
