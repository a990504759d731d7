package sqlite

import (
	"context"
	"database/sql"
	"os"

	"github.com/google/uuid"

	"media-library/internal/domain/asset"
	"media-library/internal/domain/project"
	"media-library/internal/domain/tag"
	"media-library/internal/pagination"
	"media-library/internal/storage/library"
	apperrors "media-library/pkg/errors"
	"media-library/pkg/validator"
)

type ProjectRepository struct {
	db      *DB
	library *library.Library
}

func NewProjectRepository(db *DB, lib *library.Library) *ProjectRepository {
	return &ProjectRepository{db: db, library: lib}
}

// Create inserts the project row, assigns its tags, and creates the project
// folder, all before commit. If the commit itself fails the folder is removed
// so neither store ends up ahead of the other.
func (r *ProjectRepository) Create(ctx context.Context, input project.CreateProjectInput) (*project.CreatedProject, error) {
	if err := validator.ProjectName(input.Name); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	folderPath := validator.Slugify(input.Name)
	// An empty slug would alias the library root itself; deleting such a
	// project would take every other project's tree with it.
	if folderPath == "" {
		return nil, apperrors.InvalidInput("project name must contain at least one letter or digit")
	}
	now := nowString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage("failed to start transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, folder_path, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, folderPath, input.Name, input.Description, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("project folder already exists")
		}
		return nil, apperrors.Storage("failed to create project", err)
	}

	if len(input.Tags) > 0 {
		tagIDs, err := ensureTags(ctx, tx, input.Tags, now)
		if err != nil {
			return nil, err
		}
		if err := setProjectTags(ctx, tx, id, tagIDs); err != nil {
			return nil, err
		}
	}

	// Folder first, commit second: a leftover empty folder after a failed
	// commit is cleaned up below, while a committed row without a folder
	// would break every later import.
	if err := r.library.EnsureProjectDir(folderPath); err != nil {
		return nil, apperrors.Filesystem("failed to create project folder", err)
	}

	if err := tx.Commit(); err != nil {
		os.Remove(r.library.ProjectDir(folderPath))
		return nil, apperrors.Storage("failed to commit transaction", err)
	}

	return &project.CreatedProject{ID: id, FolderPath: folderPath}, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	err := r.db.QueryRowContext(ctx, `
		SELECT id, folder_path, name, description, main_image_id, created_at, updated_at, last_scanned_at
		FROM projects
		WHERE id = ?`, id,
	).Scan(&p.ID, &p.FolderPath, &p.Name, &p.Description, &p.MainImageID, &p.CreatedAt, &p.UpdatedAt, &p.LastScannedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("project not found")
	}
	if err != nil {
		return nil, apperrors.Storage("failed to get project", err)
	}
	return &p, nil
}

// GetTags returns the project's tags sorted by name.
func (r *ProjectRepository) GetTags(ctx context.Context, projectID string) ([]tag.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at, t.updated_at
		FROM tags t
		JOIN project_tags pt ON pt.tag_id = t.id
		WHERE pt.project_id = ?
		ORDER BY t.name`, projectID,
	)
	if err != nil {
		return nil, apperrors.Storage("failed to list project tags", err)
	}
	defer rows.Close()

	tags := make([]tag.Tag, 0)
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperrors.Storage("failed to scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to list project tags", err)
	}

	return tags, nil
}

// GetAssets returns the project's assets sorted by path.
func (r *ProjectRepository) GetAssets(ctx context.Context, projectID string) ([]asset.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_path, kind, size_bytes
		FROM assets
		WHERE project_id = ?
		ORDER BY file_path`, projectID,
	)
	if err != nil {
		return nil, apperrors.Storage("failed to list project assets", err)
	}
	defer rows.Close()

	assets := make([]asset.Summary, 0)
	for rows.Next() {
		var a asset.Summary
		if err := rows.Scan(&a.ID, &a.FilePath, &a.Kind, &a.SizeBytes); err != nil {
			return nil, apperrors.Storage("failed to scan asset", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to list project assets", err)
	}

	return assets, nil
}

// List pages projects by (updated_at, id) keyset, newest first. Every row
// appears on exactly one page as long as it is not updated mid-walk.
func (r *ProjectRepository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]project.Project, error) {
	query := `
		SELECT id, folder_path, name, description, main_image_id, created_at, updated_at, last_scanned_at
		FROM projects
		ORDER BY updated_at DESC, id DESC
		LIMIT ?
	`
	args := []any{limit}

	if cursor != nil {
		query = `
			SELECT id, folder_path, name, description, main_image_id, created_at, updated_at, last_scanned_at
			FROM projects
			WHERE (updated_at, id) < (?, ?)
			ORDER BY updated_at DESC, id DESC
			LIMIT ?
		`
		args = []any{cursor.UpdatedAt, cursor.ID, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to list projects", err)
	}
	defer rows.Close()

	projects := make([]project.Project, 0, limit)
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.FolderPath, &p.Name, &p.Description, &p.MainImageID, &p.CreatedAt, &p.UpdatedAt, &p.LastScannedAt); err != nil {
			return nil, apperrors.Storage("failed to scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to list projects", err)
	}

	return projects, nil
}

// Search runs a full-text match over name and description, ordered by
// relevance then recency. A cursor without a rank component cannot continue a
// ranked walk, so it is rejected before any query runs.
func (r *ProjectRepository) Search(ctx context.Context, match string, limit int, cursor *pagination.Cursor) ([]project.SearchHit, error) {
	query := `
		SELECT bm25(projects_fts) AS rank,
		       p.id, p.folder_path, p.name, p.description, p.main_image_id, p.created_at, p.updated_at, p.last_scanned_at
		FROM projects_fts
		JOIN projects p ON p.id = projects_fts.project_id
		WHERE projects_fts MATCH ?
		ORDER BY rank ASC, p.updated_at DESC, p.id DESC
		LIMIT ?
	`
	args := []any{match, limit}

	if cursor != nil {
		if cursor.Rank == nil {
			return nil, apperrors.InvalidCursor("cursor is not a search cursor")
		}
		rank := *cursor.Rank
		query = `
			SELECT bm25(projects_fts) AS rank,
			       p.id, p.folder_path, p.name, p.description, p.main_image_id, p.created_at, p.updated_at, p.last_scanned_at
			FROM projects_fts
			JOIN projects p ON p.id = projects_fts.project_id
			WHERE projects_fts MATCH ?
			  AND (bm25(projects_fts) > ?
			       OR (bm25(projects_fts) = ? AND p.updated_at < ?)
			       OR (bm25(projects_fts) = ? AND p.updated_at = ? AND p.id < ?))
			ORDER BY rank ASC, p.updated_at DESC, p.id DESC
			LIMIT ?
		`
		args = []any{match, rank, rank, cursor.UpdatedAt, rank, cursor.UpdatedAt, cursor.ID, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to search projects", err)
	}
	defer rows.Close()

	hits := make([]project.SearchHit, 0, limit)
	for rows.Next() {
		var h project.SearchHit
		p := &h.Project
		if err := rows.Scan(&h.Rank, &p.ID, &p.FolderPath, &p.Name, &p.Description, &p.MainImageID, &p.CreatedAt, &p.UpdatedAt, &p.LastScannedAt); err != nil {
			return nil, apperrors.Storage("failed to scan search hit", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to search projects", err)
	}

	return hits, nil
}

// Update applies a partial update; nil fields keep the stored value.
func (r *ProjectRepository) Update(ctx context.Context, id string, input project.UpdateProjectInput) error {
	if input.Name != nil {
		if err := validator.ProjectName(*input.Name); err != nil {
			return err
		}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name          = COALESCE(?, name),
		    description   = COALESCE(?, description),
		    main_image_id = COALESCE(?, main_image_id),
		    updated_at    = ?
		WHERE id = ?`,
		input.Name, input.Description, input.MainImageID, nowString(), id,
	)
	if err != nil {
		return apperrors.Storage("failed to update project", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage("failed to update project", err)
	}
	if affected == 0 {
		return apperrors.NotFound("project not found")
	}

	return nil
}

// Delete removes the project folder and then the row. The order is
// deliberate: a failed folder removal aborts before the row is touched, so
// the worst outcome is a partially deleted tree still referenced by a live
// row, never an orphaned tree with no row pointing at it.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("failed to start transaction", err)
	}
	defer tx.Rollback()

	var folderPath string
	err = tx.QueryRowContext(ctx, `SELECT folder_path FROM projects WHERE id = ?`, id).Scan(&folderPath)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("project not found")
	}
	if err != nil {
		return apperrors.Storage("failed to get project", err)
	}

	if err := os.RemoveAll(r.library.ProjectDir(folderPath)); err != nil {
		return apperrors.Filesystem("failed to remove project folder", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return apperrors.Storage("failed to delete project", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to commit transaction", err)
	}

	return nil
}

// TouchScanned records a completed folder scan.
func (r *ProjectRepository) TouchScanned(ctx context.Context, id string) error {
	now := nowString()
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET last_scanned_at = ?, updated_at = ? WHERE id = ?`,
		now, now, id,
	)
	if err != nil {
		return apperrors.Storage("failed to update project", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Storage("failed to update project", err)
	}
	if affected == 0 {
		return apperrors.NotFound("project not found")
	}
	return nil
}
