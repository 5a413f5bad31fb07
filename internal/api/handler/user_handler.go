package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/api/middleware"
	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

// UserHandler covers the admin user surface and the self-service profile.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Username  string `json:"username"   validate:"required,max=150"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

type patchUserRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

func (r *patchUserRequest) toPatch(allowRole bool) ports.UserPatch {
	patch := ports.UserPatch{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
	if allowRole && r.Role != nil {
		role := domain.Role(*r.Role)
		patch.Role = &role
	}
	return patch
}

// List handles GET /v1/users/.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Username substring filter"
// @Success      200     {object}  listResponse[domain.User]
// @Failure      403     {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit := parsePage(c)
	users, total, err := h.userService.List(c.Request().Context(), middleware.ActorFrom(c), ports.UserFilter{
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(users, total, page, limit))
}

// Create handles POST /v1/users/ (admin only; no confirmation flow).
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), middleware.ActorFrom(c), ports.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Get handles GET /v1/users/:username/.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), middleware.ActorFrom(c), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /v1/users/:username/. Role is mutable here, unlike
// the self-service endpoint.
func (h *UserHandler) Update(c echo.Context) error {
	var req patchUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), middleware.ActorFrom(c), c.Param("username"), req.toPatch(true))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:username/.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), middleware.ActorFrom(c), c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/users/me/.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.userService.Me(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /v1/users/me/. A role in the payload is dropped
// before it reaches the service: the subject can never change their own
// tier through this endpoint.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req patchUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateMe(c.Request().Context(), middleware.ActorFrom(c), req.toPatch(false))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
