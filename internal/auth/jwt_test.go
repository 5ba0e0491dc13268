package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(domain.User{Username: "admin", IsAdmin: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	id, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if id != (domain.Identity{Username: "admin", IsAdmin: true}) {
		t.Errorf("Validate() = %+v", id)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	good, _ := m.Generate(domain.User{Username: "alice"})
	otherKey, _ := NewJWTManager("other-secret", time.Hour).Generate(domain.User{Username: "alice"})
	expired, _ := NewJWTManager("test-secret", -time.Minute).Generate(domain.User{Username: "alice"})
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "alice"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong key", otherKey},
		{"expired", expired},
		{"alg none", none},
		{"tampered", good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("Validate() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}
