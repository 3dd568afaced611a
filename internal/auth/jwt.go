// Package auth provides bearer-token authentication for the HTTP layer:
// an HS256 token service plus Gin middleware that resolves the acting
// identity into the request context.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sizzle-hq/go-recipe-backend/internal/domain"
)

// TokenService signs and parses HS256 bearer tokens.
type TokenService struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Claims is the token payload. IsStaff travels in the token so the
// authorization gate does not need a user lookup per request; staff status
// changes take effect when the token is reissued.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Sign issues a token for u and returns it with its expiry time.
func (ts *TokenService) Sign(u *domain.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ts.TTL)

	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		IsStaff:  u.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Parse validates raw and returns its claims. The signing method is pinned
// to HS256.
func (ts *TokenService) Parse(raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
