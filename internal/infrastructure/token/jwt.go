// Package token implements the bearer-credential contract: given an
// activated user, produce a signed JWT; given a JWT, recover the actor.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/criticdb/review-api/internal/core/domain"
)

// JWTSigner signs and verifies HS256 tokens carrying the actor identity.
type JWTSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTSigner(secret string, ttl time.Duration) *JWTSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTSigner{secret: []byte(secret), ttl: ttl}
}

func (s *JWTSigner) Issue(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username":  u.Username,
		"role":      string(u.Role),
		"staff":     u.Staff,
		"superuser": u.Superuser,
		"exp":       time.Now().Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *JWTSigner) Verify(token string) (domain.Actor, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Anonymous(), domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" || !domain.Role(role).Valid() {
		return domain.Anonymous(), domain.ErrInvalidToken
	}
	staff, _ := claims["staff"].(bool)
	superuser, _ := claims["superuser"].(bool)

	return domain.Actor{
		Username:      username,
		Role:          domain.Role(role),
		Authenticated: true,
		Staff:         staff,
		Superuser:     superuser,
	}, nil
}
