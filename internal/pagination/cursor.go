package pagination

import (
	"encoding/base64"
	"encoding/json"

	apperrors "media-library/pkg/errors"
)

// Cursor is the exact composite key of the last row a page returned. Rank is
// present only for cursors minted by ranked search; plain listings leave it
// nil. Clients treat the encoded form as opaque.
type Cursor struct {
	UpdatedAt string   `json:"updated_at"`
	ID        string   `json:"id"`
	Rank      *float64 `json:"rank,omitempty"`
}

// Encode renders the cursor as a URL-safe opaque string. It cannot fail for
// a well-formed cursor.
func Encode(c Cursor) string {
	payload, err := json.Marshal(c)
	if err != nil {
		// Cursor has no unmarshalable fields; keep the signature honest anyway.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

// Decode reverses Encode. Any malformed encoding, malformed JSON, or missing
// key field is the same client error: callers cannot distinguish tampering
// from truncation, and must not treat either as a server fault.
func Decode(raw string) (Cursor, error) {
	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Cursor{}, apperrors.InvalidCursor("cursor is not valid base64")
	}

	var c Cursor
	if err := json.Unmarshal(payload, &c); err != nil {
		return Cursor{}, apperrors.InvalidCursor("cursor payload is not valid")
	}

	if c.UpdatedAt == "" || c.ID == "" {
		return Cursor{}, apperrors.InvalidCursor("cursor is missing required fields")
	}

	return c, nil
}

// NextFromKey mints the continuation cursor for a plain listing page.
func NextFromKey(updatedAt, id string) string {
	return Encode(Cursor{UpdatedAt: updatedAt, ID: id})
}

// NextFromRankedKey mints the continuation cursor for a ranked search page.
func NextFromRankedKey(rank float64, updatedAt, id string) string {
	return Encode(Cursor{UpdatedAt: updatedAt, ID: id, Rank: &rank})
}
