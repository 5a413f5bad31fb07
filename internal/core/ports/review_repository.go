package ports

import (
	"context"

	"github.com/criticdb/review-api/internal/core/domain"
)

// ReviewRepository persists reviews. A compound unique index on
// (title_id, author) is the source of truth for the one-review-per-title
// invariant; Create translates the conflict into a domain ValidationError.
// Delete removes only the review; the service cascades its comments.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	// FindByID scopes the lookup to the given title.
	FindByID(ctx context.Context, titleID, id string) (*domain.Review, error)
	// Find looks a review up by id alone; used for comment parent
	// resolution, where the title path segment is informational only.
	Find(ctx context.Context, id string) (*domain.Review, error)
	FindByAuthorTitle(ctx context.Context, author, titleID string) (*domain.Review, error)
	ListByTitle(ctx context.Context, titleID string, page, limit int) ([]*domain.Review, int64, error)
	Update(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
	// ListIDsByTitle returns the ids of every review on a title, for
	// cascading their comments before a title delete.
	ListIDsByTitle(ctx context.Context, titleID string) ([]string, error)
	// DeleteByTitle removes every review on a title.
	DeleteByTitle(ctx context.Context, titleID string) error
	// AverageScore returns the mean review score for a title and the review
	// count (zero count means no rating).
	AverageScore(ctx context.Context, titleID string) (float64, int64, error)
}

// CommentRepository persists comments. Lookups are scoped by review id alone.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, reviewID, id string) (*domain.Comment, error)
	ListByReview(ctx context.Context, reviewID string, page, limit int) ([]*domain.Comment, int64, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
	// DeleteByReviews removes every comment belonging to the given reviews.
	DeleteByReviews(ctx context.Context, reviewIDs []string) error
}
