package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"media-library/internal/domain/tag"
	"media-library/internal/pagination"
	apperrors "media-library/pkg/errors"
)

type TagRepository struct {
	db *DB
}

func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag with its derived color. An existing name is a
// conflict; use EnsureTags for get-or-create semantics.
func (r *TagRepository) Create(ctx context.Context, name string) (*tag.Tag, error) {
	now := nowString()
	t := &tag.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     tag.ColorForName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO tags (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.Color, t.CreatedAt, t.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("tag with this name already exists")
		}
		return nil, apperrors.Storage("failed to create tag", err)
	}

	return t, nil
}

// List pages tags by (updated_at, id) keyset, newest first.
func (r *TagRepository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]tag.Tag, error) {
	query := `
		SELECT id, name, color, created_at, updated_at
		FROM tags
		ORDER BY updated_at DESC, id DESC
		LIMIT ?
	`
	args := []any{limit}

	if cursor != nil {
		query = `
			SELECT id, name, color, created_at, updated_at
			FROM tags
			WHERE (updated_at, id) < (?, ?)
			ORDER BY updated_at DESC, id DESC
			LIMIT ?
		`
		args = []any{cursor.UpdatedAt, cursor.ID, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("failed to list tags", err)
	}
	defer rows.Close()

	tags := make([]tag.Tag, 0, limit)
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperrors.Storage("failed to scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("failed to list tags", err)
	}

	return tags, nil
}

// EnsureTags resolves each name to a tag id, creating missing tags. Names
// are matched exactly; "Red" and "red" stay separate tags.
func (r *TagRepository) EnsureTags(ctx context.Context, names []string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Storage("failed to start transaction", err)
	}
	defer tx.Rollback()

	ids, err := ensureTags(ctx, tx, names, nowString())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage("failed to commit transaction", err)
	}

	return ids, nil
}

// SetProjectTags replaces the project's full tag membership. The set is
// rewritten, not diffed; concurrent writers race and the last one wins.
func (r *TagRepository) SetProjectTags(ctx context.Context, projectID string, tagIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("failed to start transaction", err)
	}
	defer tx.Rollback()

	if err := setProjectTags(ctx, tx, projectID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("failed to commit transaction", err)
	}

	return nil
}

func ensureTags(ctx context.Context, tx *sql.Tx, names []string, now string) ([]string, error) {
	ids := make([]string, 0, len(names))

	for _, name := range names {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
		if err == nil {
			ids = append(ids, id)
			continue
		}
		if err != sql.ErrNoRows {
			return nil, apperrors.Storage("failed to look up tag", err)
		}

		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tags (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			id, name, tag.ColorForName(name), now, now,
		)
		if err != nil {
			return nil, apperrors.Storage("failed to create tag", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func setProjectTags(ctx context.Context, tx *sql.Tx, projectID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, projectID); err != nil {
		return apperrors.Storage("failed to clear project tags", err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO project_tags (project_id, tag_id) VALUES (?, ?)`,
			projectID, tagID,
		)
		if err != nil {
			return apperrors.Storage("failed to assign project tag", err)
		}
	}

	return nil
}
