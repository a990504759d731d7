package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"media-library/internal/pagination"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20

	defaultPageLimit = 50
	maxPageLimit     = 200

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
)

func bindStrictJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}

// parseLimit clamps the page size into [1, maxPageLimit]; absent or
// unparsable values fall back to the default rather than erroring.
func parseLimit(c echo.Context) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return defaultPageLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return defaultPageLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

// parseCursor decodes the continuation cursor, if any.
func parseCursor(c echo.Context) (*pagination.Cursor, error) {
	raw := c.QueryParam("cursor")
	if raw == "" {
		return nil, nil
	}
	cursor, err := pagination.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}
