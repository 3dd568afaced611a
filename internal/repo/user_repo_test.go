package repo

import (
	"context"
	"testing"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

func TestCreateUser_AndLookups(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	u, err := CreateUser(context.Background(), db, "alice", "alice@example.com", "hash", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Username != "alice" || u.IsStaff {
		t.Fatalf("unexpected user: %+v", u)
	}

	byName, err := GetUserByUsername(context.Background(), db, "alice")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("GetUserByUsername: %+v, %v", byName, err)
	}
	byID, err := GetUserByID(context.Background(), db, u.ID)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("GetUserByID: %+v, %v", byID, err)
	}

	if _, err := GetUserByUsername(context.Background(), db, "bob"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetUserByID(context.Background(), db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateUsernameOrEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	if _, err := CreateUser(context.Background(), db, "alice", "alice@example.com", "hash", false); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(context.Background(), db, "alice", "other@example.com", "hash", false); err != ErrDuplicateUser {
		t.Fatalf("dup username: expected ErrDuplicateUser, got %v", err)
	}
	if _, err := CreateUser(context.Background(), db, "alice2", "alice@example.com", "hash", false); err != ErrDuplicateUser {
		t.Fatalf("dup email: expected ErrDuplicateUser, got %v", err)
	}
}
