package ports

import (
	"context"

	"github.com/criticdb/review-api/internal/core/domain"
)

// SlugFilter carries query parameters for listing categories and genres.
type SlugFilter struct {
	Search string // optional: case-insensitive substring match on name
	Page   int    // 1-based
	Limit  int
}

// CategoryRepository persists categories. Slug is unique; Create surfaces a
// conflict as a domain ValidationError. Delete removes only the category;
// clearing the reference on titles is the service's job.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, filter SlugFilter) ([]*domain.Category, int64, error)
	Delete(ctx context.Context, slug string) error
}

// GenreRepository persists genres. Slug is unique. Delete removes only the
// genre itself.
type GenreRepository interface {
	Create(ctx context.Context, g *domain.Genre) error
	FindBySlug(ctx context.Context, slug string) (*domain.Genre, error)
	List(ctx context.Context, filter SlugFilter) ([]*domain.Genre, int64, error)
	Delete(ctx context.Context, slug string) error
}

// TitleFilter carries query parameters for listing titles.
type TitleFilter struct {
	Category string // optional: category slug
	Genre    string // optional: genre slug
	Name     string // optional: case-insensitive substring match
	Year     *int   // optional: exact year
	Page     int    // 1-based
	Limit    int
}

// TitleRepository persists titles. Delete removes only the title; the service
// cascades the title's reviews and comments. ClearCategory and RemoveGenre
// detach a deleted category or genre from every title referencing it.
type TitleRepository interface {
	Create(ctx context.Context, t *domain.Title) (*domain.Title, error)
	FindByID(ctx context.Context, id string) (*domain.Title, error)
	List(ctx context.Context, filter TitleFilter) ([]*domain.Title, int64, error)
	Update(ctx context.Context, t *domain.Title) error
	Delete(ctx context.Context, id string) error
	ClearCategory(ctx context.Context, slug string) error
	RemoveGenre(ctx context.Context, slug string) error
}
