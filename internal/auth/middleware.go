package auth

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
)

const identityContextKey = "identity"

// Middleware guards a route group. A request without an Authorization header
// fails with 401; a header that does not hold a valid bearer token fails with 403.
func (s *JWTService) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  identityContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return s.VerifyToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return reject(apperrors.ErrInvalidToken)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := verify(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return reject(apperrors.ErrMissingToken)
			}
			return guarded(c)
		}
	}
}

// IdentityFromContext returns the identity bound by Middleware.
func IdentityFromContext(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityContextKey).(*Identity)
	return id, ok && id != nil
}

func reject(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
