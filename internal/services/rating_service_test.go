package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

func TestRate_ScenarioAveragesAndUpsert(t *testing.T) {
	db := newServiceDB(t)
	author := seedUser(t, db, "chef", false)
	userA := seedUser(t, db, "alice", false)
	userB := seedUser(t, db, "bob", false)

	rec, _, err := NewRecipeService(db).Create(context.Background(), author.ID, validInput(), "")
	if err != nil {
		t.Fatalf("seed recipe: %v", err)
	}

	svc := &RatingService{DB: db}

	// A rates 4 -> average 4.0
	avg, err := svc.Rate(context.Background(), userA.ID, rec.Slug, 4)
	if err != nil {
		t.Fatalf("A rates: %v", err)
	}
	if avg != 4.0 {
		t.Fatalf("after A: avg = %v; want 4.0", avg)
	}

	// B rates 2 -> average 3.0
	avg, err = svc.Rate(context.Background(), userB.ID, rec.Slug, 2)
	if err != nil {
		t.Fatalf("B rates: %v", err)
	}
	if avg != 3.0 {
		t.Fatalf("after B: avg = %v; want 3.0", avg)
	}

	// A re-rates 5 -> overwrite, average (5+2)/2 = 3.5
	avg, err = svc.Rate(context.Background(), userA.ID, rec.Slug, 5)
	if err != nil {
		t.Fatalf("A re-rates: %v", err)
	}
	if avg != 3.5 {
		t.Fatalf("after re-rate: avg = %v; want 3.5", avg)
	}

	// Exactly two rating rows exist: re-rating updated in place.
	var n int64
	db.Model(&domain.Rating{}).Where("recipe_id = ?", rec.ID).Count(&n)
	if n != 2 {
		t.Fatalf("rating rows = %d; want 2", n)
	}

	// The persisted recipe reflects the final average.
	got, err := NewRecipeService(db).Get(context.Background(), rec.Slug, "", false)
	if err != nil {
		t.Fatalf("reload recipe: %v", err)
	}
	if got.AverageRating != 3.5 {
		t.Fatalf("persisted average = %v; want 3.5", got.AverageRating)
	}
}

func TestRate_RejectsOutOfRangeScores(t *testing.T) {
	db := newServiceDB(t)
	author := seedUser(t, db, "chef", false)
	user := seedUser(t, db, "alice", false)

	rec, _, err := NewRecipeService(db).Create(context.Background(), author.ID, validInput(), "")
	if err != nil {
		t.Fatalf("seed recipe: %v", err)
	}

	svc := &RatingService{DB: db}
	for _, score := range []int{0, 6, -1, 100} {
		if _, err := svc.Rate(context.Background(), user.ID, rec.Slug, score); !errors.Is(err, ErrInvalidScore) {
			t.Fatalf("score %d: expected ErrInvalidScore, got %v", score, err)
		}
	}

	// Nothing was written.
	var n int64
	db.Model(&domain.Rating{}).Count(&n)
	if n != 0 {
		t.Fatalf("invalid scores persisted %d rows", n)
	}
	got, _ := NewRecipeService(db).Get(context.Background(), rec.Slug, "", false)
	if got.AverageRating != 0 {
		t.Fatalf("average changed by rejected scores: %v", got.AverageRating)
	}
}

func TestRate_UnknownRecipe(t *testing.T) {
	db := newServiceDB(t)
	user := seedUser(t, db, "alice", false)

	svc := &RatingService{DB: db}
	if _, err := svc.Rate(context.Background(), user.ID, "no-such-recipe", 3); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestRate_Unauthenticated(t *testing.T) {
	db := newServiceDB(t)
	svc := &RatingService{DB: db}
	if _, err := svc.Rate(context.Background(), "", "whatever", 3); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
