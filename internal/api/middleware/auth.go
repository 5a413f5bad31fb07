package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

const actorKey = "actor"

// Actor resolves the optional bearer token into a domain.Actor and injects
// it into the request context. A missing header yields the anonymous actor
// so that open read endpoints keep working; a present but invalid token is
// rejected outright.
func Actor(signer ports.TokenSigner) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set(actorKey, domain.Anonymous())
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			actor, err := signer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests. Used on the self-service profile
// routes, where the caller's identity is the resource.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !ActorFrom(c).Authenticated {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// ActorFrom returns the actor injected by the Actor middleware, anonymous
// when the middleware did not run.
func ActorFrom(c echo.Context) domain.Actor {
	actor, _ := c.Get(actorKey).(domain.Actor)
	return actor
}
