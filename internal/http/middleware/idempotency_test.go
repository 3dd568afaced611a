package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newIdemRouter(opts IdempotencyOptions, lookup IdempotencyLookup, setUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if setUser != "" {
		r.Use(func(c *gin.Context) {
			c.Set("userID", setUser)
			c.Next()
		})
	}
	r.Use(IdempotencyValidator(opts, lookup))
	r.POST("/op", func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{
			"key":    key,
			"replay": IsReplay(c),
			"bypass": IsRateBypass(c),
		})
	})
	return r
}

func TestIdempotencyValidator_NoHeaderIsNoOp(t *testing.T) {
	r := newIdemRouter(IdempotencyOptions{}, nil, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/op", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	r := newIdemRouter(IdempotencyOptions{MaxLen: 10}, nil, "")

	for _, key := range []string{"has spaces", "bad/slash", "way-too-long-for-the-cap"} {
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: status = %d; want 400", key, w.Code)
		}
	}
}

func TestIdempotencyValidator_StashesKeyAndDetectsReplay(t *testing.T) {
	var sawUser, sawKey string
	lookup := func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
		sawUser, sawKey = userID, key
		return key == "known-key", nil
	}
	r := newIdemRouter(IdempotencyOptions{}, lookup, "u42")

	// Unknown key: stored but not a replay.
	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(HeaderIdempotencyKey, "fresh-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"key":"fresh-key"`) || !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("fresh key body: %s", w.Body.String())
	}
	if sawUser != "u42" || sawKey != "fresh-key" {
		t.Fatalf("lookup saw (%q, %q)", sawUser, sawKey)
	}

	// Known key: replay and rate bypass are both flagged.
	req = httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(HeaderIdempotencyKey, "known-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	body := w.Body.String()
	if !strings.Contains(body, `"replay":true`) || !strings.Contains(body, `"bypass":true`) {
		t.Fatalf("replay body: %s", body)
	}
}

func TestIdempotencyValidator_AnonymousLookupGetsEmptyUser(t *testing.T) {
	var sawUser string
	lookup := func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
		sawUser = userID
		return false, nil
	}
	r := newIdemRouter(IdempotencyOptions{}, lookup, "")

	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(HeaderIdempotencyKey, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if sawUser != "" {
		t.Fatalf("anonymous lookup saw user %q", sawUser)
	}
}
