package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sizzle-hq/go-recipe-backend/internal/config"
	"github.com/sizzle-hq/go-recipe-backend/internal/http/middleware"
	"github.com/sizzle-hq/go-recipe-backend/internal/repo"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	cfg := config.Config{
		GinMode:        gin.TestMode,
		APIBasePath:    "/api/v1",
		JWTSecret:      "router-test-secret",
		JWTIssuer:      "router-test",
		JWTTTL:         time.Hour,
		RateRPS:        1000,
		RateBurst:      1000,
		IdempotencyTTL: time.Hour,
	}

	r := gin.New()
	RegisterRoutes(r, db, cfg)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any, extra map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "long-enough-pass",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": username,
		"password": "long-enough-pass",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("login response: %s (%v)", w.Body.String(), err)
	}
	return out.Token
}

func recipeBody(title string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "A warming classic",
		"ingredients":  "tomatoes\nchili",
		"instructions": "Simmer.\nBlend.",
		"cooking_time": 30,
		"servings":     4,
		"status":       "published",
	}
}

func TestRouter_HealthAndFallbacks(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/nope", "", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", w.Code)
	}
	var env struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Code != "not_found" {
		t.Fatalf("404 envelope: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/health", "", nil, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("method not allowed: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/metrics", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestRouter_RecipeLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice")

	// Unauthenticated creation is rejected before the handler runs.
	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", "", recipeBody("Spicy Tomato Soup"), nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %d", w.Code)
	}

	// Create.
	w = doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, recipeBody("Spicy Tomato Soup"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Slug != "spicy-tomato-soup" {
		t.Fatalf("create body: %s", w.Body.String())
	}

	// Fetch by slug.
	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes/"+created.Slug, "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	// List includes it.
	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes?q=tomato", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var list struct {
		Recipes    []json.RawMessage `json:"recipes"`
		Pagination struct {
			Total    int64 `json:"total"`
			PageSize int   `json:"page_size"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("list body: %s (%v)", w.Body.String(), err)
	}
	if list.Pagination.Total != 1 || len(list.Recipes) != 1 || list.Pagination.PageSize != 6 {
		t.Fatalf("list mismatch: %s", w.Body.String())
	}

	// Update keeps the slug.
	w = doJSON(t, r, http.MethodPut, "/api/v1/recipes/"+created.Slug, token, recipeBody("Renamed Soup"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d body %s", w.Code, w.Body.String())
	}
	var updated struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Slug != created.Slug || updated.Title != "Renamed Soup" {
		t.Fatalf("update body: %s", w.Body.String())
	}

	// Another user may not modify it.
	other := registerAndLogin(t, r, "mallory")
	w = doJSON(t, r, http.MethodDelete, "/api/v1/recipes/"+created.Slug, other, nil, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: %d", w.Code)
	}

	// Author deletes.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/recipes/"+created.Slug, token, nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes/"+created.Slug, "", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", w.Code)
	}
}

func TestRouter_RatingFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	chef := registerAndLogin(t, r, "chef")
	alice := registerAndLogin(t, r, "alice")
	bob := registerAndLogin(t, r, "bob")

	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", chef, recipeBody("Lentil Dal"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var created struct {
		Slug string `json:"slug"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	rate := func(token string, score int) (int, float64) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/recipes/"+created.Slug+"/ratings", token,
			map[string]any{"score": score}, nil)
		var out struct {
			AverageRating float64 `json:"average_rating"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return w.Code, out.AverageRating
	}

	if code, avg := rate(alice, 4); code != http.StatusOK || avg != 4.0 {
		t.Fatalf("alice rates: code=%d avg=%v", code, avg)
	}
	if code, avg := rate(bob, 2); code != http.StatusOK || avg != 3.0 {
		t.Fatalf("bob rates: code=%d avg=%v", code, avg)
	}
	if code, avg := rate(alice, 5); code != http.StatusOK || avg != 3.5 {
		t.Fatalf("alice re-rates: code=%d avg=%v", code, avg)
	}

	// Out-of-range score is rejected by binding.
	if code, _ := rate(alice, 6); code != http.StatusBadRequest {
		t.Fatalf("score 6: code=%d; want 400", code)
	}

	// Anonymous raters are rejected.
	w = doJSON(t, r, http.MethodPost, "/api/v1/recipes/"+created.Slug+"/ratings", "",
		map[string]any{"score": 3}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous rate: %d", w.Code)
	}
}

func TestRouter_IdempotentCreateReplay(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice")

	hdr := map[string]string{middleware.HeaderIdempotencyKey: "create-key-1"}

	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, recipeBody("Banana Bread"), hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: %d body %s", w.Code, w.Body.String())
	}
	var first struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &first)

	// Retry with the same key replays the original (200, same recipe).
	w = doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, recipeBody("Banana Bread"), hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("replay create: %d body %s", w.Code, w.Body.String())
	}
	var second struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &second)
	if second.ID != first.ID {
		t.Fatalf("replay returned a different recipe: %s vs %s", second.ID, first.ID)
	}

	// An invalid key is rejected up front.
	w = doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, recipeBody("Another"),
		map[string]string{middleware.HeaderIdempotencyKey: "has spaces"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad key: %d", w.Code)
	}
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "alice")

	body := recipeBody("Valid Title")
	body["description"] = "this description is far longer than the forty-five character cap"
	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	var env struct {
		Code   string `json:"code"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("envelope: %s (%v)", w.Body.String(), err)
	}
	if env.Code != "validation_failed" || len(env.Fields) == 0 {
		t.Fatalf("unexpected envelope: %s", w.Body.String())
	}
}
