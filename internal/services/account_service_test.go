package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sizzle-hq/go-recipe-backend/internal/auth"
	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

func testTokenService() *auth.TokenService {
	return &auth.TokenService{
		Secret: []byte("test-secret"),
		Issuer: "test",
		TTL:    time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	db := newServiceDB(t)
	svc := &AccountService{DB: db, Tokens: testTokenService()}

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("username = %q", u.Username)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.IsStaff {
		t.Fatalf("self-registration granted staff")
	}
	// Stored hash verifies against the original password and is not plaintext.
	if u.PasswordHash == "correct-horse-battery" {
		t.Fatalf("password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse-battery")) != nil {
		t.Fatalf("stored hash does not verify")
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	db := newServiceDB(t)
	svc := &AccountService{DB: db, Tokens: testTokenService()}

	cases := []RegisterInput{
		{Username: "al", Email: "a@example.com", Password: "long-enough-pass"},   // username too short
		{Username: "has space", Email: "a@example.com", Password: "long-enough"}, // not alphanum
		{Username: "alice", Email: "not-an-email", Password: "long-enough-pass"}, // bad email
		{Username: "alice", Email: "a@example.com", Password: "short"},           // password too short
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
	}

	var n int64
	db.Model(&domain.User{}).Count(&n)
	if n != 0 {
		t.Fatalf("invalid registrations persisted %d users", n)
	}
}

func TestRegister_DuplicateAccount(t *testing.T) {
	db := newServiceDB(t)
	svc := &AccountService{DB: db, Tokens: testTokenService()}

	in := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "long-enough-pass"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestLogin_SuccessAndFailures(t *testing.T) {
	db := newServiceDB(t)
	svc := &AccountService{DB: db, Tokens: testTokenService()}

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "long-enough-pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, exp, user, err := svc.Login(context.Background(), "alice", "long-enough-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || user == nil || user.Username != "alice" {
		t.Fatalf("unexpected login result: token=%q user=%+v", token, user)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("token already expired: %v", exp)
	}

	// The token round-trips through the token service.
	claims, err := svc.Tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" || claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Wrong password and unknown user are indistinguishable.
	if _, _, _, err := svc.Login(context.Background(), "alice", "wrong-password!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "nobody", "long-enough-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}
