package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "media-library/pkg/errors"
	"media-library/pkg/logger"
)

// NewHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, sanitizes internal
// errors, and logs errors with request context.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"

		// Check for Echo HTTP errors first
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		} else {
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				code = http.StatusNotFound
				message = "Resource not found"
			case errors.Is(err, apperrors.ErrInvalidInput):
				code = http.StatusBadRequest
				message = "Invalid input"
			case errors.Is(err, apperrors.ErrInvalidCursor):
				code = http.StatusBadRequest
				message = "Invalid pagination cursor"
			case errors.Is(err, apperrors.ErrEmptyBundle):
				code = http.StatusBadRequest
				message = "Bundle contains no valid files"
			case errors.Is(err, apperrors.ErrConflict):
				code = http.StatusConflict
				message = "Resource already exists"
			case errors.Is(err, apperrors.ErrPrecondition):
				code = http.StatusPreconditionFailed
				message = "Precondition failed"
			case errors.Is(err, apperrors.ErrStorage):
				code = http.StatusServiceUnavailable
				message = "Storage unavailable"
			case errors.Is(err, apperrors.ErrFilesystem):
				code = http.StatusInternalServerError
			}

			// Use the message from AppError if it's a client error
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && code < 500 {
				message = appErr.Message
			}
			var importErr *apperrors.ImportError
			if errors.As(err, &importErr) && code < 500 {
				message = importErr.Error()
			}
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = "unknown"
		}

		sanitized := logger.SanitizeLogMessage(err.Error())

		if code >= 500 {
			log.Error().
				Str("request_id", requestID).
				Int("status", code).
				Str("error", sanitized).
				Msg("server error")
		} else {
			log.Warn().
				Str("request_id", requestID).
				Int("status", code).
				Str("error", sanitized).
				Msg("client error")
		}

		if err := c.JSON(code, map[string]any{
			"error":      message,
			"request_id": requestID,
		}); err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}
