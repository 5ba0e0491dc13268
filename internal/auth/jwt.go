// Package auth issues and verifies the bearer tokens that carry a request's
// identity.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

var (
	// ErrInvalidToken wraps domain.ErrUnauthorized.
	ErrInvalidToken = fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	ErrMissingToken = fmt.Errorf("authorization token required: %w", domain.ErrUnauthorized)
)

// JWTManager handles token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// Claims are the custom claims of a FishFile token.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a JWT manager signing with secretKey (HS256).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate creates a signed token for the user.
func (m *JWTManager) Generate(user domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if m.tokenDuration != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.tokenDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token and returns the identity it carries.
func (m *JWTManager) Validate(tokenString string) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}
