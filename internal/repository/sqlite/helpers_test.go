package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"media-library/internal/storage/library"
	"media-library/internal/storage/staging"
)

// testEnv is a fully migrated database plus real library and staging trees
// under a per-test temp directory.
type testEnv struct {
	db      *DB
	library *library.Library
	staging *staging.Staging
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()

	db, err := Open(filepath.Join(root, "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))

	return &testEnv{
		db:      db,
		library: library.New(filepath.Join(root, "library")),
		staging: staging.New(filepath.Join(root, "bundles")),
	}
}

func (e *testEnv) projects() *ProjectRepository {
	return NewProjectRepository(e.db, e.library)
}

func (e *testEnv) tags() *TagRepository {
	return NewTagRepository(e.db)
}

func (e *testEnv) assets() *AssetRepository {
	return NewAssetRepository(e.db, e.library)
}

// bumpUpdatedAt forces a distinct updated_at so keyset ordering tests do not
// depend on wall-clock second boundaries.
func (e *testEnv) bumpUpdatedAt(t *testing.T, table, id, updatedAt string) {
	t.Helper()
	_, err := e.db.Exec(`UPDATE `+table+` SET updated_at = ? WHERE id = ?`, updatedAt, id)
	require.NoError(t, err)
}
