package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"media-library/internal/domain/asset"
	"media-library/internal/storage/library"
	"media-library/internal/storage/staging"
	apperrors "media-library/pkg/errors"
)

// ImportCoordinator moves a staged bundle into a project folder and records
// the files as asset rows in a single transaction. File moves are compensated:
// every destination file created during the attempt is deleted if anything
// after it fails, including the commit itself.
type ImportCoordinator struct {
	db      *DB
	library *library.Library
	staging *staging.Staging
	log     zerolog.Logger
}

func NewImportCoordinator(db *DB, lib *library.Library, stg *staging.Staging, log zerolog.Logger) *ImportCoordinator {
	return &ImportCoordinator{db: db, library: lib, staging: stg, log: log}
}

// undoStack collects compensations in push order and runs them in reverse.
type undoStack struct {
	actions []func()
}

func (u *undoStack) push(fn func()) {
	u.actions = append(u.actions, fn)
}

func (u *undoStack) run() {
	for i := len(u.actions) - 1; i >= 0; i-- {
		u.actions[i]()
	}
}

// ImportFromBundle imports every file in the bundle's manifest into the
// project. On success the staging directory is removed best-effort; on any
// failure both stores are restored to their pre-import state.
func (c *ImportCoordinator) ImportFromBundle(ctx context.Context, projectID, bundleID string) ([]asset.Summary, error) {
	if !c.staging.Exists(bundleID) {
		return nil, &apperrors.ImportError{Kind: apperrors.ImportBundleNotFound}
	}

	meta, err := c.staging.ReadMeta(bundleID)
	if err != nil {
		return nil, &apperrors.ImportError{Kind: apperrors.ImportMetaNotFound, Err: err}
	}

	// An empty manifest has nothing to move and nothing to record; the
	// bundle is consumed and the import succeeds vacuously.
	if len(meta.Files) == 0 {
		if err := c.staging.Remove(bundleID); err != nil {
			c.log.Warn().Err(err).Str("bundle_id", bundleID).Msg("failed to clean up empty bundle")
		}
		return []asset.Summary{}, nil
	}

	var folderPath string
	err = c.db.QueryRowContext(ctx, `SELECT folder_path FROM projects WHERE id = ?`, projectID).Scan(&folderPath)
	if err == sql.ErrNoRows {
		return nil, &apperrors.ImportError{Kind: apperrors.ImportProjectNotFound}
	}
	if err != nil {
		return nil, &apperrors.ImportError{Kind: apperrors.ImportDatabase, Err: err}
	}

	if err := c.library.EnsureProjectDir(folderPath); err != nil {
		return nil, &apperrors.ImportError{Kind: apperrors.ImportFilesystem, Err: err}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &apperrors.ImportError{Kind: apperrors.ImportDatabase, Err: err}
	}

	var undo undoStack
	fail := func(ierr *apperrors.ImportError) ([]asset.Summary, error) {
		tx.Rollback()
		undo.run()
		return nil, ierr
	}

	bundleDir := c.staging.BundleDir(bundleID)
	now := nowString()
	imported := make([]asset.Summary, 0, len(meta.Files))

	for _, file := range meta.Files {
		src := filepath.Join(bundleDir, file.Name)
		dst := c.library.AssetPath(folderPath, file.Name)

		if _, err := os.Stat(src); err != nil {
			return fail(&apperrors.ImportError{Kind: apperrors.ImportMissingFile, Name: file.Name, Err: err})
		}
		if _, err := os.Stat(dst); err == nil {
			return fail(&apperrors.ImportError{Kind: apperrors.ImportConflict, Name: file.Name})
		}

		if err := moveFile(src, dst); err != nil {
			return fail(&apperrors.ImportError{Kind: apperrors.ImportFilesystem, Name: file.Name, Err: err})
		}
		undo.push(func() { os.Remove(dst) })

		var mtime string
		if file.Mtime != nil {
			mtime = *file.Mtime
		}

		var id string
		err = tx.QueryRowContext(ctx, `
			INSERT INTO assets (id, project_id, file_path, kind, size_bytes, mtime, mime, file_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (project_id, file_path) DO UPDATE SET
				kind       = excluded.kind,
				size_bytes = excluded.size_bytes,
				mtime      = excluded.mtime,
				mime       = excluded.mime,
				file_hash  = excluded.file_hash,
				updated_at = excluded.updated_at
			RETURNING id`,
			uuid.NewString(), projectID, file.Name, file.Kind, file.Size, mtime, file.Mime, file.Checksum, now, now,
		).Scan(&id)
		if err != nil {
			return fail(&apperrors.ImportError{Kind: apperrors.ImportDatabase, Name: file.Name, Err: err})
		}

		imported = append(imported, asset.Summary{
			ID:        id,
			FilePath:  file.Name,
			Kind:      file.Kind,
			SizeBytes: file.Size,
		})
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = ?, last_scanned_at = ? WHERE id = ?`,
		now, now, projectID,
	); err != nil {
		return fail(&apperrors.ImportError{Kind: apperrors.ImportDatabase, Err: err})
	}

	if err := tx.Commit(); err != nil {
		undo.run()
		return nil, &apperrors.ImportError{Kind: apperrors.ImportDatabase, Err: err}
	}

	if err := c.staging.Remove(bundleID); err != nil {
		c.log.Warn().Err(err).Str("bundle_id", bundleID).Msg("failed to clean up imported bundle")
	}

	c.log.Info().
		Str("project_id", projectID).
		Str("bundle_id", bundleID).
		Int("files", len(imported)).
		Msg("bundle imported")

	return imported, nil
}

// moveFile renames src to dst, falling back to copy-and-delete when the two
// sit on different filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Remove(src)
}
