package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/logging"
)

// NewErrorHandler renders every error as {"error", "code"}. Anything that is
// not an *echo.HTTPError, and any HTTPError carrying an internal cause with a
// 5xx status, is logged and answered with a generic 500 body.
func NewErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			log.Error(ctx, "unhandled error",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"request_id", requestID(c),
			)
			he = echo.NewHTTPError(http.StatusInternalServerError)
		}

		if he.Code >= http.StatusInternalServerError {
			if he.Internal != nil {
				log.Error(ctx, "request failed",
					"error", he.Internal,
					"status", he.Code,
					"path", c.Request().URL.Path,
					"request_id", requestID(c),
				)
			}
			he = echo.NewHTTPError(http.StatusInternalServerError, apperrors.Internal().ToErrorResponse())
		}

		body := toErrorResponse(he)

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(he.Code)
		} else {
			writeErr = c.JSON(he.Code, body)
		}
		if writeErr != nil {
			log.Warn(ctx, "write error response", "error", writeErr)
		}
	}
}

func toErrorResponse(he *echo.HTTPError) apperrors.ErrorResponse {
	switch m := he.Message.(type) {
	case apperrors.ErrorResponse:
		return m
	case string:
		return apperrors.ErrorResponse{Error: m, Code: statusCode(he.Code)}
	default:
		return apperrors.ErrorResponse{Error: http.StatusText(he.Code), Code: statusCode(he.Code)}
	}
}

// statusCode derives a code from the status text: 404 -> NOT_FOUND.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// Recover turns panics into 500 responses and logs the stack.
func Recover(log logging.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error(c.Request().Context(), "panic recovered",
				"error", err,
				"path", c.Request().URL.Path,
				"request_id", requestID(c),
				"stack", string(stack),
			)
			return echo.NewHTTPError(http.StatusInternalServerError)
		},
	})
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
