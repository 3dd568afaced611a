package repo

import (
	"context"
	"testing"
	"time"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

func TestIdempotency_CreateAndGet(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "k1", "r1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.RecipeID != "r1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.RecipeID != "r1" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestIdempotency_ExpiredAndMissing(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "short", "r1", 201, time.Millisecond); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}

	// Past the TTL the record no longer replays.
	if _, err := GetIdempotency(ctx, db, "u1", "short", time.Now().UTC().Add(time.Second)); err != ErrNotFound {
		t.Fatalf("expired: expected ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "never-stored", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
	// Blank keys never match anything.
	if _, err := GetIdempotency(ctx, db, "u1", "  ", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("blank key: expected ErrNotFound, got %v", err)
	}
}

func TestIdempotency_DuplicatePair(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "r1", 201, time.Hour); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "r2", 201, time.Hour); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same key under another user is independent.
	if _, err := CreateIdempotency(ctx, db, "u2", "k1", "r3", 201, time.Hour); err != nil {
		t.Fatalf("other user: %v", err)
	}
}

func TestOpenSQLite_AndAutoMigrate(t *testing.T) {
	path := t.TempDir() + "/app.db"
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, table := range []string{"users", "recipes", "ratings", "idempotency"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("missing table %q after migration", table)
		}
	}
}
