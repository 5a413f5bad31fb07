package service

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/permission"
	"github.com/criticdb/review-api/internal/core/ports"
)

// CatalogService covers categories, genres and titles. Catalog resources
// have no owner, so the collection-level and object-level permission phases
// evaluate the same policy: open reads, admin-tier writes.
type CatalogService struct {
	categories ports.CategoryRepository
	genres     ports.GenreRepository
	titles     ports.TitleRepository
	reviews    ports.ReviewRepository
	comments   ports.CommentRepository
	ratings    ports.RatingCache
	clock      ports.Clock
	logger     zerolog.Logger
}

func NewCatalogService(
	categories ports.CategoryRepository,
	genres ports.GenreRepository,
	titles ports.TitleRepository,
	reviews ports.ReviewRepository,
	comments ports.CommentRepository,
	ratings ports.RatingCache,
	clock ports.Clock,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		genres:     genres,
		titles:     titles,
		reviews:    reviews,
		comments:   comments,
		ratings:    ratings,
		clock:      clock,
		logger:     logger,
	}
}

// --- Categories ---

func (s *CatalogService) ListCategories(ctx context.Context, actor domain.Actor, filter ports.SlugFilter) ([]*domain.Category, int64, error) {
	if !permission.Catalog(actor, permission.ActionList) {
		return nil, 0, domain.ErrForbidden
	}
	return s.categories.List(ctx, filter)
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Category, error) {
	if !permission.Catalog(actor, permission.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	c := &domain.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("slug", slug).Msg("category created")
	return c, nil
}

// DeleteCategory removes the category and nulls the reference on titles that
// carried it; titles themselves survive.
func (s *CatalogService) DeleteCategory(ctx context.Context, actor domain.Actor, slug string) error {
	if !permission.Catalog(actor, permission.ActionDelete) {
		return domain.ErrForbidden
	}
	if err := s.categories.Delete(ctx, slug); err != nil {
		return err
	}
	return s.titles.ClearCategory(ctx, slug)
}

// --- Genres ---

func (s *CatalogService) ListGenres(ctx context.Context, actor domain.Actor, filter ports.SlugFilter) ([]*domain.Genre, int64, error) {
	if !permission.Catalog(actor, permission.ActionList) {
		return nil, 0, domain.ErrForbidden
	}
	return s.genres.List(ctx, filter)
}

func (s *CatalogService) CreateGenre(ctx context.Context, actor domain.Actor, name, slug string) (*domain.Genre, error) {
	if !permission.Catalog(actor, permission.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	g := &domain.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info().Str("slug", slug).Msg("genre created")
	return g, nil
}

// DeleteGenre removes the genre and prunes it from every title's genre list.
func (s *CatalogService) DeleteGenre(ctx context.Context, actor domain.Actor, slug string) error {
	if !permission.Catalog(actor, permission.ActionDelete) {
		return domain.ErrForbidden
	}
	if err := s.genres.Delete(ctx, slug); err != nil {
		return err
	}
	return s.titles.RemoveGenre(ctx, slug)
}

// --- Titles ---

func (s *CatalogService) ListTitles(ctx context.Context, actor domain.Actor, filter ports.TitleFilter) ([]*domain.Title, int64, error) {
	if !permission.Catalog(actor, permission.ActionList) {
		return nil, 0, domain.ErrForbidden
	}
	titles, total, err := s.titles.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for _, t := range titles {
		t.Rating = s.ratingFor(ctx, t.ID)
	}
	return titles, total, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, actor domain.Actor, input ports.TitleInput) (*domain.Title, error) {
	if !permission.Catalog(actor, permission.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if err := s.validateYear(input.Year); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, input.Genres)
	if err != nil {
		return nil, err
	}

	title := &domain.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    category,
		Genres:      genres,
	}
	created, err := s.titles.Create(ctx, title)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("title_id", created.ID).Str("name", created.Name).Msg("title created")
	return created, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, actor domain.Actor, id string) (*domain.Title, error) {
	if !permission.Catalog(actor, permission.ActionRetrieve) {
		return nil, domain.ErrForbidden
	}
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	title.Rating = s.ratingFor(ctx, id)
	return title, nil
}

func (s *CatalogService) UpdateTitle(ctx context.Context, actor domain.Actor, id string, patch ports.TitlePatch) (*domain.Title, error) {
	if !permission.Catalog(actor, permission.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, domain.NewValidationError("name", "is required")
		}
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		if err := s.validateYear(*patch.Year); err != nil {
			return nil, err
		}
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.Category != nil {
		category, err := s.resolveCategory(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		title.Category = category
	}
	if patch.Genres != nil {
		genres, err := s.resolveGenres(ctx, patch.Genres)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.titles.Update(ctx, title); err != nil {
		return nil, err
	}
	title.Rating = s.ratingFor(ctx, id)
	return title, nil
}

// DeleteTitle removes the title together with its reviews and the comments
// under those reviews, then drops the cached rating.
func (s *CatalogService) DeleteTitle(ctx context.Context, actor domain.Actor, id string) error {
	if !permission.Catalog(actor, permission.ActionDelete) {
		return domain.ErrForbidden
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		return err
	}

	reviewIDs, err := s.reviews.ListIDsByTitle(ctx, id)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteByReviews(ctx, reviewIDs); err != nil {
		return err
	}
	if err := s.reviews.DeleteByTitle(ctx, id); err != nil {
		return err
	}

	if err := s.ratings.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("title_id", id).Msg("rating cache invalidation failed")
	}
	return nil
}

func (s *CatalogService) validateYear(year int) error {
	if year < 0 {
		return domain.NewValidationError("year", "must not be negative")
	}
	if current := s.clock.Now().Year(); year > current {
		return domain.NewValidationError("year", "must not be in the future")
	}
	return nil
}

// resolveCategory maps a category slug carried in a title write. An unknown
// slug is a client mistake in the payload, not a missing target resource, so
// it surfaces as a validation error.
func (s *CatalogService) resolveCategory(ctx context.Context, slug string) (*domain.Category, error) {
	if slug == "" {
		return nil, domain.NewValidationError("category", "is required")
	}
	category, err := s.categories.FindBySlug(ctx, slug)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, domain.NewValidationError("category", "unknown slug")
	}
	return category, err
}

func (s *CatalogService) resolveGenres(ctx context.Context, slugs []string) ([]domain.Genre, error) {
	if len(slugs) == 0 {
		return nil, domain.NewValidationError("genre", "is required")
	}
	genres := make([]domain.Genre, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.genres.FindBySlug(ctx, slug)
		if errors.Is(err, domain.ErrGenreNotFound) {
			return nil, domain.NewValidationError("genre", "unknown slug")
		}
		if err != nil {
			return nil, err
		}
		genres = append(genres, *genre)
	}
	return genres, nil
}

// ratingFor returns the rounded average review score for a title, nil when
// no reviews exist. The cache is best-effort; the reviews aggregation is the
// source of truth.
func (s *CatalogService) ratingFor(ctx context.Context, titleID string) *int {
	if rating, ok, err := s.ratings.Get(ctx, titleID); err == nil && ok {
		return rating
	} else if err != nil {
		s.logger.Warn().Err(err).Str("title_id", titleID).Msg("rating cache read failed")
	}

	avg, count, err := s.reviews.AverageScore(ctx, titleID)
	if err != nil {
		s.logger.Warn().Err(err).Str("title_id", titleID).Msg("rating aggregation failed")
		return nil
	}
	var rating *int
	if count > 0 {
		rounded := int(math.Round(avg))
		rating = &rounded
	}
	if err := s.ratings.Set(ctx, titleID, rating); err != nil {
		s.logger.Warn().Err(err).Str("title_id", titleID).Msg("rating cache write failed")
	}
	return rating
}
