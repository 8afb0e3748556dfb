package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
)

// respondError translates a domain error into the echo error the router's
// error handler renders. Unknown errors become a 500 with the cause attached
// internally for logging.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	he := echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	if httpErr.StatusCode == http.StatusInternalServerError {
		return he.SetInternal(err)
	}
	return he
}

func invalidBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	}).SetInternal(err)
}
