package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/permission"
	"github.com/criticdb/review-api/internal/core/ports"
)

// ReviewService covers reviews nested under titles and comments nested under
// reviews.
//
// Comment parent resolution trusts the review id alone: the title id in the
// path is informational and deliberately not re-validated against the
// review's title. This mirrors the upstream behavior and is a known
// authorization gap rather than an oversight.
type ReviewService struct {
	titles   ports.TitleRepository
	reviews  ports.ReviewRepository
	comments ports.CommentRepository
	ratings  ports.RatingCache
	clock    ports.Clock
	logger   zerolog.Logger
}

func NewReviewService(
	titles ports.TitleRepository,
	reviews ports.ReviewRepository,
	comments ports.CommentRepository,
	ratings ports.RatingCache,
	clock ports.Clock,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
		ratings:  ratings,
		clock:    clock,
		logger:   logger,
	}
}

// --- Reviews ---

func (s *ReviewService) ListReviews(ctx context.Context, actor domain.Actor, titleID string, page ports.Page) ([]*domain.Review, int64, error) {
	if !permission.ReviewCollection(actor, permission.ActionList) {
		return nil, 0, domain.ErrForbidden
	}
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page.Page, page.Limit)
}

func (s *ReviewService) CreateReview(ctx context.Context, actor domain.Actor, titleID, text string, score int) (*domain.Review, error) {
	if !permission.ReviewCollection(actor, permission.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := validateScore(score); err != nil {
		return nil, err
	}

	// Fast-path duplicate check; the compound unique index on
	// (title_id, author) remains authoritative under concurrency.
	if _, err := s.reviews.FindByAuthorTitle(ctx, actor.Username, titleID); err == nil {
		return nil, domain.NewValidationError("", "only one review per title is allowed")
	} else if !errors.Is(err, domain.ErrReviewNotFound) {
		return nil, err
	}

	review := &domain.Review{
		TitleID: titleID,
		Author:  actor.Username,
		Text:    text,
		Score:   score,
		PubDate: s.clock.Now().UTC(),
	}
	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	s.invalidateRating(ctx, titleID)
	s.logger.Info().Str("title_id", titleID).Str("author", actor.Username).Msg("review created")
	return created, nil
}

func (s *ReviewService) GetReview(ctx context.Context, actor domain.Actor, titleID, id string) (*domain.Review, error) {
	if !permission.ReviewCollection(actor, permission.ActionRetrieve) {
		return nil, domain.ErrForbidden
	}
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviews.FindByID(ctx, titleID, id)
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor domain.Actor, titleID, id string, text *string, score *int) (*domain.Review, error) {
	if !permission.ReviewCollection(actor, permission.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByID(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	if !permission.ReviewObject(actor, permission.ActionUpdate, review.Author) {
		return nil, domain.ErrForbidden
	}

	if text != nil {
		review.Text = *text
	}
	if score != nil {
		if err := validateScore(*score); err != nil {
			return nil, err
		}
		review.Score = *score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateRating(ctx, titleID)
	return review, nil
}

// DeleteReview removes the review and every comment under it.
func (s *ReviewService) DeleteReview(ctx context.Context, actor domain.Actor, titleID, id string) error {
	if !permission.ReviewCollection(actor, permission.ActionDelete) {
		return domain.ErrForbidden
	}
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return err
	}
	review, err := s.reviews.FindByID(ctx, titleID, id)
	if err != nil {
		return err
	}
	if !permission.ReviewObject(actor, permission.ActionDelete, review.Author) {
		return domain.ErrForbidden
	}
	if err := s.comments.DeleteByReviews(ctx, []string{id}); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateRating(ctx, titleID)
	return nil
}

// --- Comments ---

func (s *ReviewService) ListComments(ctx context.Context, actor domain.Actor, reviewID string, page ports.Page) ([]*domain.Comment, int64, error) {
	if !permission.ReviewCollection(actor, permission.ActionList) {
		return nil, 0, domain.ErrForbidden
	}
	if err := s.resolveReview(ctx, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, page.Page, page.Limit)
}

func (s *ReviewService) CreateComment(ctx context.Context, actor domain.Actor, reviewID, text string) (*domain.Comment, error) {
	if !permission.ReviewCollection(actor, permission.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if err := s.resolveReview(ctx, reviewID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ReviewID: reviewID,
		Author:   actor.Username,
		Text:     text,
		PubDate:  s.clock.Now().UTC(),
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("review_id", reviewID).Str("author", actor.Username).Msg("comment created")
	return created, nil
}

func (s *ReviewService) GetComment(ctx context.Context, actor domain.Actor, reviewID, id string) (*domain.Comment, error) {
	if !permission.ReviewCollection(actor, permission.ActionRetrieve) {
		return nil, domain.ErrForbidden
	}
	if err := s.resolveReview(ctx, reviewID); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, reviewID, id)
}

func (s *ReviewService) UpdateComment(ctx context.Context, actor domain.Actor, reviewID, id, text string) (*domain.Comment, error) {
	if !permission.ReviewCollection(actor, permission.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	if err := s.resolveReview(ctx, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, reviewID, id)
	if err != nil {
		return nil, err
	}
	if !permission.ReviewObject(actor, permission.ActionUpdate, comment.Author) {
		return nil, domain.ErrForbidden
	}

	comment.Text = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, actor domain.Actor, reviewID, id string) error {
	if !permission.ReviewCollection(actor, permission.ActionDelete) {
		return domain.ErrForbidden
	}
	if err := s.resolveReview(ctx, reviewID); err != nil {
		return err
	}
	comment, err := s.comments.FindByID(ctx, reviewID, id)
	if err != nil {
		return err
	}
	if !permission.ReviewObject(actor, permission.ActionDelete, comment.Author) {
		return domain.ErrForbidden
	}
	return s.comments.Delete(ctx, id)
}

func (s *ReviewService) resolveTitle(ctx context.Context, titleID string) error {
	_, err := s.titles.FindByID(ctx, titleID)
	return err
}

func (s *ReviewService) resolveReview(ctx context.Context, reviewID string) error {
	_, err := s.reviews.Find(ctx, reviewID)
	return err
}

func (s *ReviewService) invalidateRating(ctx context.Context, titleID string) {
	if err := s.ratings.Invalidate(ctx, titleID); err != nil {
		s.logger.Warn().Err(err).Str("title_id", titleID).Msg("rating cache invalidation failed")
	}
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return domain.NewValidationError("score", "must be between 1 and 10")
	}
	return nil
}
