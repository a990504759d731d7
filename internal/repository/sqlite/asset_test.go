package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/domain/asset"
	"media-library/internal/domain/project"
	apperrors "media-library/pkg/errors"
)

func (e *testEnv) seedProjectWithAsset(t *testing.T, name, filePath string) (*project.CreatedProject, *asset.Asset) {
	t.Helper()
	ctx := context.Background()

	created, err := e.projects().Create(ctx, project.CreateProjectInput{Name: name})
	require.NoError(t, err)

	full := e.library.AssetPath(created.FolderPath, filePath)
	require.NoError(t, os.WriteFile(full, []byte("bytes"), 0o644))

	a, err := e.assets().Insert(ctx, asset.InsertAssetInput{
		ProjectID: created.ID,
		FilePath:  filePath,
		Kind:      asset.KindForName(filePath),
		SizeBytes: 5,
		Mtime:     "2026-08-27T10:00:00Z",
		Mime:      "application/octet-stream",
	})
	require.NoError(t, err)

	return created, a
}

func TestInsertAssetDuplicatePath(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.seedProjectWithAsset(t, "Dup", "part.stl")

	_, err := env.assets().Insert(context.Background(), asset.InsertAssetInput{
		ProjectID: created.ID,
		FilePath:  "part.stl",
		Kind:      asset.KindModel,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestSetMainImage(t *testing.T) {
	env := newTestEnv(t)
	created, a := env.seedProjectWithAsset(t, "Pictured", "photo.png")
	ctx := context.Background()

	require.NoError(t, env.assets().SetMainImage(ctx, created.ID, a.ID))

	got, err := env.projects().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MainImageID)
	assert.Equal(t, a.ID, *got.MainImageID)
}

func TestSetMainImageRejectsForeignAsset(t *testing.T) {
	env := newTestEnv(t)
	_, a := env.seedProjectWithAsset(t, "Owner", "photo.png")
	other, err := env.projects().Create(context.Background(), project.CreateProjectInput{Name: "Other"})
	require.NoError(t, err)

	err = env.assets().SetMainImage(context.Background(), other.ID, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteAssetRemovesRowAndFile(t *testing.T) {
	env := newTestEnv(t)
	created, a := env.seedProjectWithAsset(t, "Trimmed", "part.stl")
	ctx := context.Background()

	require.NoError(t, env.assets().Delete(ctx, created.ID, a.ID))

	_, statErr := os.Stat(env.library.AssetPath(created.FolderPath, "part.stl"))
	assert.True(t, os.IsNotExist(statErr))

	assets, err := env.projects().GetAssets(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDeleteAssetToleratesMissingFile(t *testing.T) {
	env := newTestEnv(t)
	created, a := env.seedProjectWithAsset(t, "Ghost", "part.stl")
	ctx := context.Background()

	// The file vanished out from under the row; deleting the row still works.
	require.NoError(t, os.Remove(env.library.AssetPath(created.FolderPath, "part.stl")))
	require.NoError(t, env.assets().Delete(ctx, created.ID, a.ID))

	assets, err := env.projects().GetAssets(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDeleteAssetRollsBackRowOnUnlinkFailure(t *testing.T) {
	env := newTestEnv(t)
	created, a := env.seedProjectWithAsset(t, "Sticky", "part.stl")
	ctx := context.Background()

	// Replace the file with a non-empty directory so os.Remove fails.
	full := env.library.AssetPath(created.FolderPath, "part.stl")
	require.NoError(t, os.Remove(full))
	require.NoError(t, os.MkdirAll(filepath.Join(full, "child"), 0o755))

	err := env.assets().Delete(ctx, created.ID, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFilesystem))

	// The row must come back when the unlink fails.
	assets, err := env.projects().GetAssets(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, a.ID, assets[0].ID)
}

func TestDeleteAssetNotFound(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.seedProjectWithAsset(t, "Lonely", "part.stl")

	err := env.assets().Delete(context.Background(), created.ID, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
