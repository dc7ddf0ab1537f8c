package postgres

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestPoolUsage(t *testing.T) {
	if got := poolUsage(5, 10); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := poolUsage(5, 0); got != 0 {
		t.Errorf("expected 0 for unbounded pool, got %v", got)
	}
}

func TestKVStore_Integration(t *testing.T) {
	url := os.Getenv("HEADLINES_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HEADLINES_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, Config{URL: url})
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	store := NewKVStore(db)
	defer store.Close()

	key := "test_key_" + time.Now().Format("150405.000000")
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.SetMany(ctx, map[string]string{key: "one", key + "_ts": "1"}); err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}
	if err := store.SetMany(ctx, map[string]string{key: "two"}); err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}

	v, ok, err := store.Get(ctx, key)
	if err != nil || !ok || v != "two" {
		t.Errorf("expected two, got %q ok=%v err=%v", v, ok, err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key LIKE $1`, key+"%"); err != nil {
		t.Logf("cleanup failed: %v", err)
	}
}
