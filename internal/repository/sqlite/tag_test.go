package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/domain/project"
	"media-library/internal/domain/tag"
	"media-library/internal/pagination"
	apperrors "media-library/pkg/errors"
)

func TestCreateTag(t *testing.T) {
	env := newTestEnv(t)
	repo := env.tags()
	ctx := context.Background()

	created, err := repo.Create(ctx, "miniatures")
	require.NoError(t, err)
	assert.Equal(t, "miniatures", created.Name)
	assert.Equal(t, tag.ColorForName("miniatures"), created.Color)

	_, err = repo.Create(ctx, "miniatures")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestTagNamesAreCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	repo := env.tags()
	ctx := context.Background()

	_, err := repo.Create(ctx, "Red")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "red")
	require.NoError(t, err)
}

func TestEnsureTagsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	repo := env.tags()
	ctx := context.Background()

	first, err := repo.EnsureTags(ctx, []string{"terrain", "scatter"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.EnsureTags(ctx, []string{"terrain", "scatter"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Mixed known and new names resolve in order.
	third, err := repo.EnsureTags(ctx, []string{"scatter", "ruins"})
	require.NoError(t, err)
	require.Len(t, third, 2)
	assert.Equal(t, first[1], third[0])
	assert.NotContains(t, first, third[1])
}

func TestSetProjectTagsReplacesMembership(t *testing.T) {
	env := newTestEnv(t)
	projects := env.projects()
	tags := env.tags()
	ctx := context.Background()

	created, err := projects.Create(ctx, project.CreateProjectInput{Name: "Tagged"})
	require.NoError(t, err)

	ids, err := tags.EnsureTags(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)

	require.NoError(t, tags.SetProjectTags(ctx, created.ID, ids[:2]))
	got, err := projects.GetTags(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NoError(t, tags.SetProjectTags(ctx, created.ID, ids[2:]))
	got, err = projects.GetTags(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Name)
}

func TestListTagsKeysetWalk(t *testing.T) {
	env := newTestEnv(t)
	repo := env.tags()
	ctx := context.Background()

	ids := make(map[string]bool)
	for i := 0; i < 5; i++ {
		created, err := repo.Create(ctx, fmt.Sprintf("tag-%d", i))
		require.NoError(t, err)
		ids[created.ID] = false
		env.bumpUpdatedAt(t, "tags", created.ID, fmt.Sprintf("2026-08-2%dT10:00:00Z", i))
	}

	const limit = 2
	var cursor *pagination.Cursor
	for {
		page, err := repo.List(ctx, limit, cursor)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, tg := range page {
			require.False(t, ids[tg.ID], "tag %s returned twice", tg.ID)
			ids[tg.ID] = true
		}
		if len(page) < limit {
			break
		}
		last := page[len(page)-1]
		c, err := pagination.Decode(pagination.NextFromKey(last.UpdatedAt, last.ID))
		require.NoError(t, err)
		cursor = &c
	}

	for id, seen := range ids {
		assert.True(t, seen, "tag %s never returned", id)
	}
}
