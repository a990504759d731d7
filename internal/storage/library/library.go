package library

import (
	"os"
	"path/filepath"
)

// Library maps project folder slugs to directories under the library root.
// It owns path construction only; moving bytes in and out of project folders
// is the import coordinator's job.
type Library struct {
	root string
}

func New(root string) *Library {
	return &Library{root: root}
}

func (l *Library) Root() string {
	return l.root
}

// ProjectDir returns the directory for a project's folder slug.
func (l *Library) ProjectDir(folderPath string) string {
	return filepath.Join(l.root, folderPath)
}

// AssetPath returns the on-disk location of an asset's relative path.
func (l *Library) AssetPath(folderPath, filePath string) string {
	return filepath.Join(l.root, folderPath, filePath)
}

// EnsureProjectDir creates the project directory if it does not exist.
func (l *Library) EnsureProjectDir(folderPath string) error {
	return os.MkdirAll(l.ProjectDir(folderPath), 0o755)
}
