package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/logging"
)

// errorBody is the shape of every failed response.
type errorBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// respondError writes err as {ok:false, message}.  Classified errors keep
// their message; anything else is logged and hidden behind a generic 500.
func respondError(c echo.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindInternal {
		return c.JSON(apperr.HTTPStatus(ae.Kind), errorBody{Message: ae.Message})
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		if he.Code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error().Err(err).Msg("request failed")
		}
		return c.JSON(he.Code, errorBody{Message: msg})
	}

	logging.FromContext(c.Request().Context()).Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, errorBody{Message: "internal error"})
}

// ErrorHandler is installed as echo's HTTPErrorHandler so errors returned
// by middleware and handlers render the same way.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		status := apperr.HTTPStatus(apperr.KindOf(err))
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}
		_ = c.NoContent(status)
		return
	}
	_ = respondError(c, err)
}

// pathID parses the named path parameter as a positive id.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// bind decodes the request body into dst, mapping decode failures to a
// validation error.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
