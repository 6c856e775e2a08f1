package middleware

import (
	"fmt"
	"net/http"
	"strings"

	domain "agriloan-backend/internal/domain/application"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// actorContextKey is where the resolved actor lives in the echo context.
const actorContextKey = "auth.actor"

// Claims carried by the portal's access tokens. The auth service issues
// them; this middleware only verifies and extracts.
type Claims struct {
	jwt.RegisteredClaims
	// Reviewer marks administrative actors allowed to review applications.
	Reviewer bool `json:"reviewer"`
}

// JWTAuth verifies the Bearer token (HS256) and stores the actor in the
// request context. Requests without a valid token never reach the handler.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			if claims.Subject == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token missing subject"})
			}

			c.Set(actorContextKey, domain.Actor{UserID: claims.Subject, Reviewer: claims.Reviewer})
			return next(c)
		}
	}
}

// RequireReviewer guards the admin surface. JWTAuth must run first.
func RequireReviewer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			if !actor.Reviewer {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "reviewer authority required"})
			}
			return next(c)
		}
	}
}

// ActorFrom extracts the authenticated actor placed by JWTAuth.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(domain.Actor)
	return actor, ok
}
