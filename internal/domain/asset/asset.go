package asset

import (
	"path/filepath"
	"strings"
)

// Kind buckets assets by what the UI can do with them.
const (
	KindImage = "image"
	KindModel = "model"
	KindOther = "other"
)

// Asset is one file inside a project folder, mirrored as a row. The row
// exists if and only if the file exists; only a single mutating operation
// may transiently violate that.
type Asset struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"project_id"`
	FilePath  string  `json:"file_path"`
	Kind      string  `json:"kind"`
	SizeBytes int64   `json:"size_bytes"`
	Mtime     string  `json:"mtime"`
	Mime      string  `json:"mime"`
	FileHash  *string `json:"file_hash"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// InsertAssetInput carries all derived fields; the store never inspects the
// filesystem itself.
type InsertAssetInput struct {
	ProjectID string
	FilePath  string
	Kind      string
	SizeBytes int64
	Mtime     string
	Mime      string
}

// Summary is the slim projection used by project detail and bundle import
// results.
type Summary struct {
	ID        string `json:"id"`
	FilePath  string `json:"file_path"`
	Kind      string `json:"kind"`
	SizeBytes int64  `json:"size_bytes"`
}

var modelExtensions = map[string]struct{}{
	".stl":  {},
	".obj":  {},
	".3mf":  {},
	".fbx":  {},
	".glb":  {},
	".gltf": {},
}

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// KindForName derives the asset kind from the file extension.
func KindForName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	if _, ok := modelExtensions[ext]; ok {
		return KindModel
	}
	return KindOther
}
