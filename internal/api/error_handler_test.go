package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/criticdb/review-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec.Code, body["error"]
}

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", domain.NewValidationError("score", "must be between 1 and 10"), http.StatusBadRequest},
		{"bad code", domain.ErrInvalidConfirmationCode, http.StatusBadRequest},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound},
		{"genre not found", domain.ErrGenreNotFound, http.StatusNotFound},
		{"title not found", domain.ErrTitleNotFound, http.StatusNotFound},
		{"review not found", domain.ErrReviewNotFound, http.StatusNotFound},
		{"comment not found", domain.ErrCommentNotFound, http.StatusNotFound},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, _ := render(t, tc.err)
		if code != tc.wantCode {
			t.Errorf("%s: got %d, want %d", tc.name, code, tc.wantCode)
		}
	}
}

func TestHTTPErrorHandler_DoesNotLeakInternals(t *testing.T) {
	_, msg := render(t, errors.New("mongo: connection reset by peer"))
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_WrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrTitleNotFound)
	code, _ := render(t, wrapped)
	if code != http.StatusNotFound {
		t.Fatalf("wrapped sentinel not recognised: got %d", code)
	}
}
