package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/criticdb/review-api/internal/core/domain"
)

func TestJWTSigner_RoundTrip(t *testing.T) {
	signer := NewJWTSigner("secret", time.Hour)

	tok, err := signer.Issue(&domain.User{
		Username:  "alice",
		Role:      domain.RoleModerator,
		Staff:     true,
		Superuser: false,
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	actor, err := signer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if actor.Username != "alice" || actor.Role != domain.RoleModerator {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if !actor.Authenticated || !actor.Staff || actor.Superuser {
		t.Fatalf("flags lost in the round trip: %+v", actor)
	}
}

func TestJWTSigner_WrongSecret(t *testing.T) {
	tok, err := NewJWTSigner("secret-a", time.Hour).Issue(&domain.User{Username: "alice", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := NewJWTSigner("secret-b", time.Hour).Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTSigner_Expired(t *testing.T) {
	signer := &JWTSigner{secret: []byte("secret"), ttl: -time.Minute}
	tok, err := signer.Issue(&domain.User{Username: "alice", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := signer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTSigner_Garbage(t *testing.T) {
	signer := NewJWTSigner("secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := signer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestJWTSigner_AlgorithmConfusion(t *testing.T) {
	// A token signed with none must never verify.
	claims := jwt.MapClaims{
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none failed: %v", err)
	}

	if _, err := NewJWTSigner("secret", time.Hour).Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

func TestJWTSigner_MissingIdentity(t *testing.T) {
	secret := []byte("secret")
	signer := NewJWTSigner("secret", time.Hour)

	cases := []jwt.MapClaims{
		{"role": "user", "exp": time.Now().Add(time.Hour).Unix()},                          // no username
		{"username": "alice", "exp": time.Now().Add(time.Hour).Unix()},                     // no role
		{"username": "alice", "role": "wizard", "exp": time.Now().Add(time.Hour).Unix()},   // bad role
	}
	for i, claims := range cases {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		if err != nil {
			t.Fatalf("case %d: signing failed: %v", i, err)
		}
		if _, err := signer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("case %d: expected ErrInvalidToken, got %v", i, err)
		}
	}
}
