package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPErrorHandler converts errors returned by handlers into the API's
// {success:false, message} envelope. Store errors (and anything unclassified)
// are logged with their cause and answered with a generic 500 message.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = HTTPStatus(appErr)
			message = appErr.Message
			if appErr.Kind == Store {
				message = "internal server error"
				rid, _ := c.Get("request_id").(string)
				logger.Error().Err(appErr.Err).
					Str("request_id", rid).
					Str("path", c.Request().URL.Path).
					Msg(appErr.Message)
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		default:
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, failure{Success: false, Message: message})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
