// Package domain defines the persistence models for users, recipes, and
// ratings. These types are mapped with GORM and form the core data layer
// of the recipe-sharing application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Recipe status values. Draft recipes are visible only to their author
// (and staff); published recipes appear in the public listing.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// User represents a registered account. Passwords are stored as bcrypt
// hashes and never serialized. Staff accounts may edit or delete any recipe.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique handle used for login (3–30 chars).
//   - Email: unique contact address.
//   - PasswordHash: bcrypt hash of the account password (never in JSON).
//   - IsStaff: privilege flag that bypasses authorship checks.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username"   gorm:"type:varchar(30);not null;uniqueIndex:ux_users_username"`
	Email        string         `json:"email"      gorm:"type:varchar(254);not null;uniqueIndex:ux_users_email"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(72);not null"`
	IsStaff      bool           `json:"is_staff"   gorm:"not null;default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Recipe represents a user-authored recipe. Its slug is assigned once at
// creation, is unique across all recipes, and never changes on edit — it is
// the stable identifier used in URLs.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Title: display title (≤200 chars).
//   - Slug: URL-safe unique identifier derived from the title at creation.
//   - AuthorID: foreign key to the authoring user (indexed).
//   - FeaturedImage: opaque image reference (URL or media key).
//   - Description: short teaser shown in listings (≤45 chars).
//   - Ingredients / Instructions: free text, one item or step per line.
//   - CookingTime: minutes, positive.
//   - Servings: portions the recipe yields, positive.
//   - Category: optional label from the fixed category list.
//   - AverageRating: arithmetic mean of all rating scores; 0 when unrated.
//     Maintained exclusively by the rating service, never edited directly.
//   - Status: "draft" or "published" (enforced by DB constraint).
//   - CreatedAt: set once at creation; listing order is newest first.
//   - Author: FK association, ensures cascade delete/update.
type Recipe struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	Title         string         `json:"title"          gorm:"type:varchar(200);not null"`
	Slug          string         `json:"slug"           gorm:"type:varchar(220);not null;uniqueIndex:ux_recipes_slug"`
	AuthorID      string         `json:"author_id"      gorm:"type:char(36);not null;index:idx_author_recipes"`
	FeaturedImage string         `json:"featured_image" gorm:"type:varchar(512);not null;default:'placeholder'"`
	Description   string         `json:"description"    gorm:"type:varchar(45);not null"`
	Ingredients   string         `json:"ingredients"    gorm:"type:text;not null"`
	Instructions  string         `json:"instructions"   gorm:"type:text;not null"`
	CookingTime   int            `json:"cooking_time"   gorm:"not null"`
	Servings      int            `json:"servings"       gorm:"not null"`
	Category      string         `json:"category,omitempty" gorm:"type:varchar(64)"`
	AverageRating float64        `json:"average_rating" gorm:"not null;default:0"`
	Status        string         `json:"status"         gorm:"type:varchar(16);not null;default:'draft';check:status IN ('draft','published')"`
	CreatedAt     time.Time      `json:"created_on"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"              gorm:"index"`

	// Author is the owning user. Recipes are cascade-deleted if their
	// author is removed.
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// Rating represents a single user's 1–5 score for one recipe. A user holds
// at most one rating per recipe (enforced by unique index); re-submitting
// updates the score in place rather than inserting a second row. Ratings
// have no soft-delete column: they live and die with their recipe.
type Rating struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	RecipeID  string    `json:"recipe_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_ratings_recipe_user"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_ratings_recipe_user"`
	Score     int       `json:"score"     gorm:"not null;check:score BETWEEN 1 AND 5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Recipe is the rated recipe. Ratings are cascade-deleted if the
	// recipe is removed.
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// User is the rating author; same cascade semantics.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Rating.
func (Rating) TableName() string { return "ratings" }
