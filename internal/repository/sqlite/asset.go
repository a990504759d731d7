package sqlite

import (
	"context"
	"database/sql"
	"os"

	"github.com/google/uuid"

	"media-library/internal/domain/asset"
	"media-library/internal/storage/library"
	apperrors "media-library/pkg/errors"
)

type AssetRepository struct {
	db      *DB
	library *library.Library
}

func NewAssetRepository(db *DB, lib *library.Library) *AssetRepository {
	return &AssetRepository{db: db, library: lib}
}

// Insert records a row for a file that already exists on disk. The caller
// derives kind, size, mtime, and mime; the store trusts the input.
func (r *AssetRepository) Insert(ctx context.Context, input asset.InsertAssetInput) (*asset.Asset, error) {
	now := nowString()
	a := &asset.Asset{
		ID:        uuid.NewString(),
		ProjectID: input.ProjectID,
		FilePath:  input.FilePath,
		Kind:      input.Kind,
		SizeBytes: input.SizeBytes,
		Mtime:     input.Mtime,
		Mime:      input.Mime,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, project_id, file_path, kind, size_bytes, mtime, mime, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.FilePath, a.Kind, a.SizeBytes, a.Mtime, a.Mime, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("asset path already exists in project")
		}
		return nil, apperrors.Storage("failed to insert asset", err)
	}

	return a, nil
}

// SetMainImage points the project's main image at one of its own assets.
func (r *AssetRepository) SetMainImage(ctx context.Context, projectID, assetID string) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM assets WHERE id = ? AND project_id = ?`,
		assetID, projectID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("asset not found in project")
	}
	if err != nil {
		return apperrors.Storage("failed to get asset", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE projects SET main_image_id = ?, updated_at = ? WHERE id = ?`,
		assetID, nowString(), projectID,
	)
	if err != nil {
		return apperrors.Storage("failed to set main image", err)
	}

	return nil
}

// Delete removes the row first and the file second. A failed unlink rolls the
// row back, so a file never outlives its row without the row coming back.
func (r *AssetRepository) Delete(ctx context.Context, projectID, assetID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("failed to start transaction", err)
	}
	defer tx.Rollback()

	var folderPath, filePath string
	err = tx.QueryRowContext(ctx, `
		SELECT p.folder_path, a.file_path
		FROM assets a
		JOIN projects p ON p.id = a.project_id
		WHERE a.id = ? AND a.project_id = ?`,
		assetID, projectID,
	).Scan(&folderPath, &filePath)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("asset not found in project")
	}
	if err != nil {
		return apperrors.Storage("failed to get asset", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, assetID); err != nil {
		return apperrors.Storage("failed to delete asset", err)
	}

	if err := os.Remove(r.library.AssetPath(folderPath, filePath)); err != nil && !os.IsNotExist(err) {
		// Rollback via the deferred tx.Rollback; the row survives.
		return apperrors.Filesystem("failed to remove asset file", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to commit transaction", err)
	}

	return nil
}
