package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/api/metrics"
	"github.com/criticdb/review-api/internal/api/middleware"
	"github.com/criticdb/review-api/internal/core/ports"
)

type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type createReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,gte=1,lte=10"`
}

type patchReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

// List handles GET /v1/titles/:title_id/reviews/.
//
// @Summary      List reviews for a title
// @Tags         reviews
// @Produce      json
// @Success      200  {object}  listResponse[domain.Review]
// @Router       /v1/titles/{title_id}/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	page, limit := parsePage(c)
	reviews, total, err := h.reviewService.ListReviews(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"), ports.Page{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(reviews, total, page, limit))
}

// Create handles POST /v1/titles/:title_id/reviews/. One review per author per
// title.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.CreateReview(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"), req.Text, req.Score)
	if err != nil {
		return err
	}
	metrics.ReviewsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, review)
}

// Get handles GET /v1/titles/:title_id/reviews/:review_id/.
func (h *ReviewHandler) Get(c echo.Context) error {
	review, err := h.reviewService.GetReview(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"), c.Param("review_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Update handles PATCH /v1/titles/:title_id/reviews/:review_id/.
func (h *ReviewHandler) Update(c echo.Context) error {
	var req patchReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.UpdateReview(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"), c.Param("review_id"), req.Text, req.Score)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /v1/titles/:title_id/reviews/:review_id/. Comments go
// with the review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.reviewService.DeleteReview(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"), c.Param("review_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
