package middleware

import (
	"context"

	"secret-santa-api/core/constants"
	"secret-santa-api/core/controller"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/utils"

	"github.com/labstack/echo/v4"
)

// TokenVerifier is the slice of the auth service the middleware needs.
type TokenVerifier interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type Middleware struct {
	verifier TokenVerifier
}

func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// AuthMiddleware validates the bearer token and stores its claims in the
// request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "Missing or malformed authorization header")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid or expired token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Token scope not allowed")
			}

			if m.verifier != nil {
				blacklisted, errCheck := m.verifier.IsTokenBlacklisted(c.Request().Context(), token)
				if errCheck != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", errCheck)
					return controller.NewErrorResponse(500, errors.ErrInternalServer, "Failed to verify token")
				}
				if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Token has been revoked")
				}
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// AdminMiddleware requires an authenticated admin. Must run after
// AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData := c.Get(constants.ContextTokenData)
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok || claims == nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "User not authenticated")
			}
			if claims.Role != constants.RoleAdmin {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "Admin role required")
			}
			return next(c)
		}
	}
}
