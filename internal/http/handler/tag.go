package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"media-library/internal/domain/tag"
	"media-library/internal/pagination"
	apperrors "media-library/pkg/errors"
)

type TagHandler struct {
	tags TagRepository
}

func NewTagHandler(tags TagRepository) *TagHandler {
	return &TagHandler{tags: tags}
}

type CreateTagRequest struct {
	Name string `json:"name"`
}

func (h *TagHandler) CreateTag(c echo.Context) error {
	var req CreateTagRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperrors.InvalidInput("tag name must not be empty")
	}

	created, err := h.tags.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

type TagPageResponse struct {
	Tags       []tag.Tag `json:"tags"`
	NextCursor *string   `json:"next_cursor"`
}

func (h *TagHandler) ListTags(c echo.Context) error {
	limit := parseLimit(c)
	cursor, err := parseCursor(c)
	if err != nil {
		return err
	}

	tags, err := h.tags.List(c.Request().Context(), limit, cursor)
	if err != nil {
		return err
	}

	resp := TagPageResponse{Tags: tags}
	if len(tags) == limit {
		last := tags[len(tags)-1]
		next := pagination.NextFromKey(last.UpdatedAt, last.ID)
		resp.NextCursor = &next
	}

	return c.JSON(http.StatusOK, resp)
}
