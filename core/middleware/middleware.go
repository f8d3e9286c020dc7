package middleware

import (
	"bandmate-api/core/cache"
	"bandmate-api/core/constants"
	"bandmate-api/core/controller"
	"bandmate-api/core/errors"
	"bandmate-api/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles request middlewares that need shared dependencies
type Middleware struct {
	cache cache.CacheInterface
}

func NewMiddleware(c cache.CacheInterface) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware authenticates the request via a bearer JWT and stores the
// parsed claims on the echo context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err == nil && blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token has been revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrTokenExpired, "invalid or expired token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "wrong token scope")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
