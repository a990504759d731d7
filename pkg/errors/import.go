package errors

import "fmt"

// ImportErrorKind enumerates every way an import can fail. The set is closed
// on purpose: the HTTP layer maps each kind to a distinct response and must
// not discover new kinds at runtime.
type ImportErrorKind int

const (
	ImportBundleNotFound ImportErrorKind = iota
	ImportMetaNotFound
	ImportProjectNotFound
	ImportMissingFile
	ImportConflict
	ImportFilesystem
	ImportDatabase
)

// ImportError is the failure result of importing a bundle into a project.
// Name is set for the per-file kinds (MissingFile, Conflict).
type ImportError struct {
	Kind ImportErrorKind
	Name string
	Err  error
}

func (e *ImportError) Error() string {
	switch e.Kind {
	case ImportBundleNotFound:
		return "bundle not found"
	case ImportMetaNotFound:
		return "missing meta file in bundle"
	case ImportProjectNotFound:
		return "project not found"
	case ImportMissingFile:
		return fmt.Sprintf("missing file in bundle: %s", e.Name)
	case ImportConflict:
		return fmt.Sprintf("conflict with existing file: %s", e.Name)
	case ImportFilesystem:
		return fmt.Sprintf("filesystem error during import: %v", e.Err)
	case ImportDatabase:
		return fmt.Sprintf("database error during import: %v", e.Err)
	}
	return "import failed"
}

// Unwrap maps each kind onto the shared sentinel taxonomy so callers that
// only speak errors.Is still classify the failure correctly.
func (e *ImportError) Unwrap() error {
	switch e.Kind {
	case ImportBundleNotFound, ImportProjectNotFound:
		return ErrNotFound
	case ImportMetaNotFound, ImportMissingFile:
		return ErrPrecondition
	case ImportConflict:
		return ErrConflict
	case ImportFilesystem:
		return ErrFilesystem
	default:
		return ErrStorage
	}
}
