package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/api/metrics"
	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email,max=254"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"          validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup registers a new user and mails a confirmation code.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Email)
	if err != nil {
		if domain.IsValidation(err) {
			metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, signupResponse{Username: user.Username, Email: user.Email})
}

// Token exchanges a confirmation code for a bearer token.
//
// @Summary      Obtain a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Username and confirmation code"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.Token(c.Request().Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
