package handler

import (
	"context"

	"media-library/internal/domain/asset"
	"media-library/internal/domain/project"
	"media-library/internal/domain/tag"
	"media-library/internal/pagination"
)

// Handlers depend on the narrow slices of the repository layer they actually
// call, so tests can stand in small fakes.

type ProjectRepository interface {
	Create(ctx context.Context, input project.CreateProjectInput) (*project.CreatedProject, error)
	GetByID(ctx context.Context, id string) (*project.Project, error)
	GetTags(ctx context.Context, projectID string) ([]tag.Tag, error)
	GetAssets(ctx context.Context, projectID string) ([]asset.Summary, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]project.Project, error)
	Search(ctx context.Context, match string, limit int, cursor *pagination.Cursor) ([]project.SearchHit, error)
	Update(ctx context.Context, id string, input project.UpdateProjectInput) error
	Delete(ctx context.Context, id string) error
}

type TagRepository interface {
	Create(ctx context.Context, name string) (*tag.Tag, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]tag.Tag, error)
	EnsureTags(ctx context.Context, names []string) ([]string, error)
	SetProjectTags(ctx context.Context, projectID string, tagIDs []string) error
}

type AssetRepository interface {
	Delete(ctx context.Context, projectID, assetID string) error
	SetMainImage(ctx context.Context, projectID, assetID string) error
}

type BundleImporter interface {
	ImportFromBundle(ctx context.Context, projectID, bundleID string) ([]asset.Summary, error)
}
