package store_test

import (
	"context"
	"testing"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/store"
)

func TestConfigDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := store.NewConfig(db)

	v, err := cfg.Get(ctx, queuectl.ConfigMaxRetries)
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != "3" {
		t.Fatalf("expected default max_retries=3, got %v", v)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := store.NewConfig(db)

	if err := cfg.Set(ctx, queuectl.ConfigMaxRetries, "7"); err != nil {
		t.Fatal(err)
	}
	v, err := cfg.Get(ctx, queuectl.ConfigMaxRetries)
	if err != nil {
		t.Fatal(err)
	}
	if *v != "7" {
		t.Fatalf("expected 7, got %s", *v)
	}
}

func TestConfigRejectsNonNumeric(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := store.NewConfig(db)

	if err := cfg.Set(ctx, queuectl.ConfigMaxRetries, "not-a-number"); err != queuectl.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConfigAllMaterializesDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := store.NewConfig(db)

	all, err := cfg.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if all[queuectl.ConfigBackoffBase] != "2" {
		t.Fatalf("expected backoff_base default 2, got %v", all[queuectl.ConfigBackoffBase])
	}
	if len(all) < 6 {
		t.Fatalf("expected all recognised keys materialized, got %d", len(all))
	}
}

func TestUnrecognisedKeyHasNoDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := store.NewConfig(db)

	v, err := cfg.Get(ctx, "not_a_real_key")
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("expected nil for unrecognised key, got %v", v)
	}
}
