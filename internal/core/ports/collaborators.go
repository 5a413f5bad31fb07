package ports

import (
	"context"
	"time"

	"github.com/criticdb/review-api/internal/core/domain"
)

// Mailer delivers a single plain-text message. The confirmation flow treats
// delivery as fire-and-forget: a transport failure is logged and never rolls
// back the signup.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TokenSigner issues and verifies the opaque bearer credential bound to an
// activated user.
type TokenSigner interface {
	Issue(u *domain.User) (string, error)
	// Verify recovers the actor identity from a token, failing with
	// domain.ErrInvalidToken on any signature, shape, or expiry problem.
	Verify(token string) (domain.Actor, error)
}

// Clock supplies the current time; injectable so the year bound on titles is
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RatingCache is a best-effort cache for a title's aggregate rating. A nil
// rating is cacheable (title with no reviews).
type RatingCache interface {
	Get(ctx context.Context, titleID string) (rating *int, ok bool, err error)
	Set(ctx context.Context, titleID string, rating *int) error
	Invalidate(ctx context.Context, titleID string) error
}
