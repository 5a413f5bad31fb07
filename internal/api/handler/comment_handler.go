package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/api/metrics"
	"github.com/criticdb/review-api/internal/api/middleware"
	"github.com/criticdb/review-api/internal/core/ports"
)

type CommentHandler struct {
	reviewService ports.ReviewService
}

func NewCommentHandler(reviewService ports.ReviewService) *CommentHandler {
	return &CommentHandler{reviewService: reviewService}
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type patchCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// List handles GET /v1/titles/:title_id/reviews/:review_id/comments/.
func (h *CommentHandler) List(c echo.Context) error {
	page, limit := parsePage(c)
	comments, total, err := h.reviewService.ListComments(c.Request().Context(), middleware.ActorFrom(c), c.Param("review_id"), ports.Page{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(comments, total, page, limit))
}

// Create handles POST /v1/titles/:title_id/reviews/:review_id/comments/.
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.reviewService.CreateComment(c.Request().Context(), middleware.ActorFrom(c), c.Param("review_id"), req.Text)
	if err != nil {
		return err
	}
	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, comment)
}

// Get handles GET .../comments/:comment_id/.
func (h *CommentHandler) Get(c echo.Context) error {
	comment, err := h.reviewService.GetComment(c.Request().Context(), middleware.ActorFrom(c), c.Param("review_id"), c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Update handles PATCH .../comments/:comment_id/.
func (h *CommentHandler) Update(c echo.Context) error {
	var req patchCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.reviewService.UpdateComment(c.Request().Context(), middleware.ActorFrom(c), c.Param("review_id"), c.Param("comment_id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE .../comments/:comment_id/.
func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.reviewService.DeleteComment(c.Request().Context(), middleware.ActorFrom(c), c.Param("review_id"), c.Param("comment_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
