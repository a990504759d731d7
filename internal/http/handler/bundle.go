package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"media-library/internal/domain/bundle"
	"media-library/internal/storage/staging"
	apperrors "media-library/pkg/errors"
)

const multipartFilesField = "files"

type BundleHandler struct {
	staging *staging.Staging
}

func NewBundleHandler(stg *staging.Staging) *BundleHandler {
	return &BundleHandler{staging: stg}
}

type CreateBundleResponse struct {
	BundleID string            `json:"bundle_id"`
	Files    []bundle.FileMeta `json:"files"`
	Failed   []string          `json:"failed,omitempty"`
}

// CreateBundle stages a multipart upload. Individual parts that fail
// validation or I/O are reported back without failing the bundle; a bundle
// where every part failed is rejected as empty.
func (h *BundleHandler) CreateBundle(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.InvalidInput("request is not a valid multipart upload")
	}

	parts := form.File[multipartFilesField]
	if len(parts) == 0 {
		return apperrors.EmptyBundle()
	}

	writer, err := h.staging.NewBundle()
	if err != nil {
		return err
	}

	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			writer.AddFile(part.Filename, failingReader{})
			continue
		}
		writer.AddFile(part.Filename, src)
		src.Close()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	meta, failed, err := writer.Finalize(now)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreateBundleResponse{
		BundleID: writer.ID(),
		Files:    meta.Files,
		Failed:   failed,
	})
}

func (h *BundleHandler) DeleteBundle(c echo.Context) error {
	if err := h.staging.Delete(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// failingReader stands in for a part that could not be opened so the writer
// records it as failed like any other broken part.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
