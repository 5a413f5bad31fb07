package ports

import (
	"context"

	"github.com/criticdb/review-api/internal/core/domain"
)

// Page carries plain page-number pagination parameters.
type Page struct {
	Page  int // 1-based
	Limit int
}

// AuthService implements the signup → confirmation code → token exchange
// state machine.
type AuthService interface {
	// Signup registers a new inactive user and dispatches a confirmation
	// code by mail. Re-signup with an existing exact (username, email) pair
	// is an idempotent success.
	Signup(ctx context.Context, username, email string) (*domain.User, error)
	// Token exchanges a confirmation code for a signed bearer token and
	// activates the account.
	Token(ctx context.Context, username, confirmationCode string) (string, error)
}

// UserPatch carries a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *domain.Role
}

// CreateUserInput carries the admin-facing user creation payload.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      domain.Role
}

// UserService covers the admin user surface plus the self-service profile.
type UserService interface {
	List(ctx context.Context, actor domain.Actor, filter UserFilter) ([]*domain.User, int64, error)
	Create(ctx context.Context, actor domain.Actor, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, username string) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, username string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, username string) error

	// Me returns the caller's own profile.
	Me(ctx context.Context, actor domain.Actor) (*domain.User, error)
	// UpdateMe applies a partial self-update; a role present in the patch is
	// silently ignored, never applied and never an error.
	UpdateMe(ctx context.Context, actor domain.Actor, patch UserPatch) (*domain.User, error)
}

// TitleInput carries the full title payload; Category and Genres reference
// existing slugs.
type TitleInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genres      []string
}

// TitlePatch carries a partial title update; nil fields (and a nil Genres
// slice) are left untouched.
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      []string
}

// CatalogService covers categories, genres and titles.
type CatalogService interface {
	ListCategories(ctx context.Context, actor domain.Actor, filter SlugFilter) ([]*domain.Category, int64, error)
	CreateCategory(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor domain.Actor, slug string) error

	ListGenres(ctx context.Context, actor domain.Actor, filter SlugFilter) ([]*domain.Genre, int64, error)
	CreateGenre(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Genre, error)
	DeleteGenre(ctx context.Context, actor domain.Actor, slug string) error

	ListTitles(ctx context.Context, actor domain.Actor, filter TitleFilter) ([]*domain.Title, int64, error)
	CreateTitle(ctx context.Context, actor domain.Actor, input TitleInput) (*domain.Title, error)
	GetTitle(ctx context.Context, actor domain.Actor, id string) (*domain.Title, error)
	UpdateTitle(ctx context.Context, actor domain.Actor, id string, patch TitlePatch) (*domain.Title, error)
	DeleteTitle(ctx context.Context, actor domain.Actor, id string) error
}

// ReviewService covers reviews nested under titles and comments nested under
// reviews.
type ReviewService interface {
	ListReviews(ctx context.Context, actor domain.Actor, titleID string, page Page) ([]*domain.Review, int64, error)
	CreateReview(ctx context.Context, actor domain.Actor, titleID, text string, score int) (*domain.Review, error)
	GetReview(ctx context.Context, actor domain.Actor, titleID, id string) (*domain.Review, error)
	UpdateReview(ctx context.Context, actor domain.Actor, titleID, id string, text *string, score *int) (*domain.Review, error)
	DeleteReview(ctx context.Context, actor domain.Actor, titleID, id string) error

	ListComments(ctx context.Context, actor domain.Actor, reviewID string, page Page) ([]*domain.Comment, int64, error)
	CreateComment(ctx context.Context, actor domain.Actor, reviewID, text string) (*domain.Comment, error)
	GetComment(ctx context.Context, actor domain.Actor, reviewID, id string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, actor domain.Actor, reviewID, id, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor domain.Actor, reviewID, id string) error
}
