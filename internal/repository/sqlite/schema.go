package sqlite

import (
	"context"
	"fmt"
)

// Schema bootstrap runs at startup and is idempotent. The FTS index over
// project name/description is kept in sync by triggers so no write path has
// to remember it.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		folder_path     TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		main_image_id   TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		last_scanned_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		file_path  TEXT NOT NULL,
		kind       TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		mtime      TEXT NOT NULL DEFAULT '',
		mime       TEXT NOT NULL DEFAULT '',
		file_hash  TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (project_id, file_path)
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		color      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_tags (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (project_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects (updated_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_updated_at ON tags (updated_at DESC, id DESC)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS projects_fts USING fts5(
		project_id UNINDEXED,
		name,
		description
	)`,
	`CREATE TRIGGER IF NOT EXISTS projects_fts_insert AFTER INSERT ON projects BEGIN
		INSERT INTO projects_fts (project_id, name, description)
		VALUES (new.id, new.name, new.description);
	END`,
	`CREATE TRIGGER IF NOT EXISTS projects_fts_delete AFTER DELETE ON projects BEGIN
		DELETE FROM projects_fts WHERE project_id = old.id;
	END`,
	`CREATE TRIGGER IF NOT EXISTS projects_fts_update AFTER UPDATE OF name, description ON projects BEGIN
		DELETE FROM projects_fts WHERE project_id = old.id;
		INSERT INTO projects_fts (project_id, name, description)
		VALUES (new.id, new.name, new.description);
	END`,
}

// Migrate applies the schema. Safe to call on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
