package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"media-library/internal/domain/asset"
	"media-library/internal/domain/project"
	"media-library/internal/domain/tag"
	"media-library/internal/pagination"
	apperrors "media-library/pkg/errors"
	"media-library/pkg/validator"
)

const paramProjectID = "id"

type ProjectHandler struct {
	projects ProjectRepository
	assets   AssetRepository
	importer BundleImporter
}

func NewProjectHandler(projects ProjectRepository, assets AssetRepository, importer BundleImporter) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		assets:   assets,
		importer: importer,
	}
}

type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req CreateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.ProjectName(req.Name); err != nil {
		return err
	}

	created, err := h.projects.Create(c.Request().Context(), project.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

type ProjectPageResponse struct {
	Projects   []project.Project `json:"projects"`
	NextCursor *string           `json:"next_cursor"`
}

type SearchPageResponse struct {
	Results    []project.SearchHit `json:"results"`
	NextCursor *string             `json:"next_cursor"`
}

// ListProjects pages the library newest-first. With a q parameter it becomes
// a ranked full-text search; the two modes mint incompatible cursors and a
// cursor from one cannot continue the other.
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	limit := parseLimit(c)
	cursor, err := parseCursor(c)
	if err != nil {
		return err
	}

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		return h.searchProjects(c, q, limit, cursor)
	}

	projects, err := h.projects.List(c.Request().Context(), limit, cursor)
	if err != nil {
		return err
	}

	resp := ProjectPageResponse{Projects: projects}
	if len(projects) == limit {
		last := projects[len(projects)-1]
		next := pagination.NextFromKey(last.UpdatedAt, last.ID)
		resp.NextCursor = &next
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) searchProjects(c echo.Context, q string, limit int, cursor *pagination.Cursor) error {
	hits, err := h.projects.Search(c.Request().Context(), q, limit, cursor)
	if err != nil {
		return err
	}

	resp := SearchPageResponse{Results: hits}
	if len(hits) == limit {
		last := hits[len(hits)-1]
		next := pagination.NextFromRankedKey(last.Rank, last.Project.UpdatedAt, last.Project.ID)
		resp.NextCursor = &next
	}

	return c.JSON(http.StatusOK, resp)
}

type ProjectDetailResponse struct {
	Project project.Project `json:"project"`
	Tags    []tag.Tag       `json:"tags"`
	Assets  []asset.Summary `json:"assets"`
}

func (h *ProjectHandler) GetProject(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param(paramProjectID)

	p, err := h.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tags, err := h.projects.GetTags(ctx, id)
	if err != nil {
		return err
	}

	assets, err := h.projects.GetAssets(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ProjectDetailResponse{Project: *p, Tags: tags, Assets: assets})
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MainImageID *string `json:"main_image_id"`
}

func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	var req UpdateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param(paramProjectID)

	err := h.projects.Update(ctx, id, project.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		MainImageID: req.MainImageID,
	})
	if err != nil {
		return err
	}

	updated, err := h.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	if err := h.projects.Delete(c.Request().Context(), c.Param(paramProjectID)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type ImportBundleRequest struct {
	BundleID     string  `json:"bundle_id"`
	NewMainImage *string `json:"new_main_image"`
}

type ImportBundleResponse struct {
	Imported    []asset.Summary `json:"imported"`
	MainImageID *string         `json:"main_image_id"`
}

// ImportBundle consumes a staged bundle into the project. The main image is
// assigned afterwards: an explicit new_main_image must name one of the files
// just imported, and a project with no main image adopts the first imported
// image automatically.
func (h *ProjectHandler) ImportBundle(c echo.Context) error {
	var req ImportBundleRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.BundleID) == "" {
		return apperrors.InvalidInput("bundle_id is required")
	}

	ctx := c.Request().Context()
	projectID := c.Param(paramProjectID)

	p, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	imported, err := h.importer.ImportFromBundle(ctx, projectID, req.BundleID)
	if err != nil {
		return err
	}

	resp := ImportBundleResponse{Imported: imported, MainImageID: p.MainImageID}

	mainAssetID := ""
	switch {
	case req.NewMainImage != nil:
		for _, a := range imported {
			if a.FilePath == *req.NewMainImage {
				mainAssetID = a.ID
				break
			}
		}
		if mainAssetID == "" {
			return apperrors.InvalidInput("new_main_image does not name an imported file")
		}
	case p.MainImageID == nil:
		for _, a := range imported {
			if a.Kind == asset.KindImage {
				mainAssetID = a.ID
				break
			}
		}
	}

	if mainAssetID != "" {
		if err := h.assets.SetMainImage(ctx, projectID, mainAssetID); err != nil {
			return err
		}
		resp.MainImageID = &mainAssetID
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) DeleteAsset(c echo.Context) error {
	err := h.assets.Delete(c.Request().Context(), c.Param(paramProjectID), c.Param("asset_id"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
