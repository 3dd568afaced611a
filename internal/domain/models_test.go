package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTableNames(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Fatalf("User table = %q; want users", got)
	}
	if got := (Recipe{}).TableName(); got != "recipes" {
		t.Fatalf("Recipe table = %q; want recipes", got)
	}
	if got := (Rating{}).TableName(); got != "ratings" {
		t.Fatalf("Rating table = %q; want ratings", got)
	}
	if got := (Idempotency{}).TableName(); got != "idempotency" {
		t.Fatalf("Idempotency table = %q; want idempotency", got)
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusDraft != "draft" || StatusPublished != "published" {
		t.Fatalf("unexpected status constants: %q %q", StatusDraft, StatusPublished)
	}
}

func TestUserJSON_NeverLeaksPasswordHash(t *testing.T) {
	u := User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "bcrypt-secret",
		CreatedAt:    time.Now().UTC(),
	}
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "bcrypt-secret") {
		t.Fatalf("password hash serialized: %s", raw)
	}
	if !strings.Contains(string(raw), `"username":"alice"`) {
		t.Fatalf("expected username in JSON: %s", raw)
	}
}

func TestRecipeJSON_CreatedOnFieldName(t *testing.T) {
	r := Recipe{ID: "r1", Title: "Soup", Slug: "soup", CreatedAt: time.Now().UTC()}
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"created_on"`) {
		t.Fatalf("expected created_on key in JSON: %s", raw)
	}
}
