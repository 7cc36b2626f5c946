package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/openfreight/roadlog/internal/config"
	"github.com/openfreight/roadlog/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	// miniredis.Addr() returns "host:port", so Port stays zero
	cfg := config.RedisConfig{
		Host:         mr.Addr(),
		Port:         0,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  "5s",
		ReadTimeout:  "3s",
		WriteTimeout: "3s",
	}

	store, err := Open(cfg, time.Hour)
	if err != nil {
		t.Fatalf("Failed to open Redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestPlanStore_PutAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"total_distance_miles":350}`)
	if err := store.PutPlan(ctx, "abc123", payload); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}

	got, err := store.GetPlan(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Expected payload %s, got %s", payload, got)
	}
}

func TestPlanStore_GetMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.GetPlan(context.Background(), "no-such-plan")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPlanStore_Overwrite(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	if err := store.PutPlan(ctx, "key", []byte("first")); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}
	if err := store.PutPlan(ctx, "key", []byte("second")); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}

	got, err := store.GetPlan(ctx, "key")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Expected second payload, got %s", got)
	}
}

func TestPlanStore_TTLExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	if err := store.PutPlan(ctx, "expiring", []byte("payload")); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}

	// miniredis advances TTLs manually
	mr.FastForward(2 * time.Hour)

	_, err := store.GetPlan(ctx, "expiring")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after expiry, got %v", err)
	}
}

func TestPlanStore_KeyPrefix(t *testing.T) {
	store, mr := setupTestStore(t)

	if err := store.PutPlan(context.Background(), "fp", []byte("x")); err != nil {
		t.Fatalf("PutPlan failed: %v", err)
	}

	if !mr.Exists("roadlog:plan:fp") {
		t.Error("Expected key roadlog:plan:fp to exist")
	}
}
