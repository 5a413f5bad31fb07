package ports

import (
	"context"

	"github.com/criticdb/review-api/internal/core/domain"
)

// UserFilter carries the query parameters for listing users.
type UserFilter struct {
	Search string // optional: case-insensitive substring match on username
	Page   int    // 1-based
	Limit  int
}

// UserRepository defines persistence operations for user accounts.
// Username and email carry unique constraints; Create surfaces conflicts as
// a domain ValidationError.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameEmail matches the exact (username, email) pair; used by
	// the idempotent signup path.
	FindByUsernameEmail(ctx context.Context, username, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, username string) error
}
