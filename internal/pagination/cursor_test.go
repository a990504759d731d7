package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "media-library/pkg/errors"
)

func TestCursorRoundTrip(t *testing.T) {
	encoded := NextFromKey("2026-08-27T10:00:00Z", "abc-123")
	require.NotEmpty(t, encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-27T10:00:00Z", decoded.UpdatedAt)
	assert.Equal(t, "abc-123", decoded.ID)
	assert.Nil(t, decoded.Rank)
}

func TestRankedCursorRoundTrip(t *testing.T) {
	encoded := NextFromRankedKey(-1.5, "2026-08-27T10:00:00Z", "abc-123")

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded.Rank)
	assert.Equal(t, -1.5, *decoded.Rank)
	assert.Equal(t, "abc-123", decoded.ID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not json", "bm90LWpzb24"},
		{"truncated payload", NextFromKey("2026-08-27T10:00:00Z", "abc-123")[:10]},
		{"empty object", "e30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidCursor))
		})
	}
}

func TestDecodeRequiresBothKeyFields(t *testing.T) {
	// {"updated_at":"2026-08-27T10:00:00Z"} without an id
	_, err := Decode("eyJ1cGRhdGVkX2F0IjoiMjAyNi0wOC0yN1QxMDowMDowMFoifQ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidCursor))
}
