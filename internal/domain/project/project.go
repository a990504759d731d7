package project

// Project is one library entry: a named folder of assets under the library
// root. Timestamps are RFC3339 UTC strings; their fixed width is what lets
// the keyset pagination compare them lexicographically.
type Project struct {
	ID            string  `json:"id"`
	FolderPath    string  `json:"folder_path"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	MainImageID   *string `json:"main_image_id"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	LastScannedAt *string `json:"last_scanned_at"`
}

type CreateProjectInput struct {
	Name        string
	Description string
	Tags        []string
}

type CreatedProject struct {
	ID         string `json:"id"`
	FolderPath string `json:"folder_path"`
}

// UpdateProjectInput carries a partial update; nil fields keep the stored
// value (COALESCE semantics, last writer wins).
type UpdateProjectInput struct {
	Name        *string
	Description *string
	MainImageID *string
}

// SearchHit pairs a project with its full-text relevance. Lower rank is a
// stronger match.
type SearchHit struct {
	Rank    float64 `json:"rank"`
	Project Project `json:"project"`
}
