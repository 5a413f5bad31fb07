package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/core/domain"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, username, email string) (*domain.User, error)
	tokenFn  func(ctx context.Context, username, code string) (string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, username, email string) (*domain.User, error) {
	return s.signupFn(ctx, username, email)
}

func (s *stubAuthService) Token(ctx context.Context, username, code string) (string, error) {
	return s.tokenFn(ctx, username, code)
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, username, email string) (*domain.User, error) {
			if username != "alice" || email != "alice@example.com" {
				t.Fatalf("unexpected args: %s %s", username, email)
			}
			return &domain.User{Username: username, Email: email, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/v1/auth/signup/", `{"username":"alice","email":"alice@example.com"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Signup_BadPayload(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	})

	cases := []string{
		`{"username":"alice"}`,
		`{"email":"a@example.com"}`,
		`{"username":"alice","email":"not-an-email"}`,
		`{bad json`,
	}
	for _, body := range cases {
		c, _ := newTestContext(http.MethodPost, "/v1/auth/signup/", body)
		err := handler.Signup(c)
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Signup_ServiceError(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.NewValidationError("username", "this username is reserved")
		},
	})

	c, _ := newTestContext(http.MethodPost, "/v1/auth/signup/", `{"username":"me","email":"me@example.com"}`)
	err := handler.Signup(c)
	if !domain.IsValidation(err) {
		t.Fatalf("service error must propagate to the error handler, got %v", err)
	}
}

func TestAuthHandler_Token_Success(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		tokenFn: func(ctx context.Context, username, code string) (string, error) {
			if username != "alice" || code != "ABCD1234" {
				t.Fatalf("unexpected args: %s %s", username, code)
			}
			return "signed-token", nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/v1/auth/token/", `{"username":"alice","confirmation_code":"ABCD1234"}`)
	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Token_BadCode(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{
		tokenFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidConfirmationCode
		},
	})

	c, _ := newTestContext(http.MethodPost, "/v1/auth/token/", `{"username":"alice","confirmation_code":"WRONG"}`)
	if err := handler.Token(c); err != domain.ErrInvalidConfirmationCode {
		t.Fatalf("expected ErrInvalidConfirmationCode, got %v", err)
	}
}
