package staging

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"media-library/internal/domain/asset"
	"media-library/internal/domain/bundle"
	apperrors "media-library/pkg/errors"
	"media-library/pkg/validator"
)

const octetStream = "application/octet-stream"

// Staging is the holding pen for uploaded files: one directory per bundle
// under the state root, each with a meta.json manifest. Bundles live here
// until an import consumes them or a client deletes them.
type Staging struct {
	root string
}

func New(root string) *Staging {
	return &Staging{root: root}
}

func (s *Staging) BundleDir(bundleID string) string {
	return filepath.Join(s.root, bundleID)
}

// NewBundle allocates a staging directory and returns a writer to fill it.
func (s *Staging) NewBundle() (*BundleWriter, error) {
	id := uuid.NewString()
	dir := s.BundleDir(id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Filesystem("failed to create bundle directory", err)
	}

	return &BundleWriter{id: id, dir: dir}, nil
}

// ReadMeta loads a bundle's manifest. A missing or unreadable meta.json is a
// Precondition failure: the directory exists but is not a usable bundle.
func (s *Staging) ReadMeta(bundleID string) (*bundle.Meta, error) {
	data, err := os.ReadFile(filepath.Join(s.BundleDir(bundleID), bundle.MetaFileName))
	if err != nil {
		return nil, apperrors.Precondition("bundle has no readable meta file")
	}

	var meta bundle.Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, apperrors.Precondition("bundle meta file is not valid")
	}

	return &meta, nil
}

// Exists reports whether the bundle's staging directory is present.
func (s *Staging) Exists(bundleID string) bool {
	_, err := os.Stat(s.BundleDir(bundleID))
	return err == nil
}

// Delete removes the staging directory tree.
func (s *Staging) Delete(bundleID string) error {
	dir := s.BundleDir(bundleID)
	if _, err := os.Stat(dir); err != nil {
		return apperrors.NotFound("bundle not found")
	}

	if err := os.RemoveAll(dir); err != nil {
		return apperrors.Filesystem("failed to delete bundle", err)
	}

	return nil
}

// Remove is the best-effort variant used after a successful import; the
// caller logs the error instead of propagating it.
func (s *Staging) Remove(bundleID string) error {
	return os.RemoveAll(s.BundleDir(bundleID))
}

// BundleWriter accumulates uploaded files into one staging directory.
type BundleWriter struct {
	id     string
	dir    string
	files  []bundle.FileMeta
	failed []string
}

func (w *BundleWriter) ID() string {
	return w.id
}

// AddFile sanitizes the name and streams the part to disk, recording size,
// mtime, mime, kind and a sha256 checksum. A file that fails validation or
// I/O is recorded as a failure and skipped; it never fails the bundle.
func (w *BundleWriter) AddFile(name string, r io.Reader) {
	if err := validator.FileName(name); err != nil {
		w.failed = append(w.failed, name)
		return
	}

	dst := filepath.Join(w.dir, name)
	f, err := os.Create(dst)
	if err != nil {
		w.failed = append(w.failed, name)
		return
	}

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hasher), r)
	closeErr := f.Close()
	if err != nil || closeErr != nil {
		w.failed = append(w.failed, name)
		os.Remove(dst)
		return
	}

	checksum := hex.EncodeToString(hasher.Sum(nil))

	var mtime *string
	if info, err := os.Stat(dst); err == nil {
		t := info.ModTime().UTC().Format(time.RFC3339)
		mtime = &t
	}

	w.files = append(w.files, bundle.FileMeta{
		Name:     name,
		Size:     size,
		Mtime:    mtime,
		Mime:     mimeForName(name),
		Kind:     asset.KindForName(name),
		Checksum: &checksum,
	})
}

// Finalize writes the meta.json sidecar and returns the manifest. With zero
// accepted files the staging directory is removed and the bundle fails as
// empty.
func (w *BundleWriter) Finalize(now string) (*bundle.Meta, []string, error) {
	if len(w.files) == 0 {
		os.RemoveAll(w.dir)
		return nil, w.failed, apperrors.EmptyBundle()
	}

	meta := &bundle.Meta{
		UploadedAt: now,
		Files:      w.files,
	}

	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		os.RemoveAll(w.dir)
		return nil, w.failed, apperrors.Filesystem("failed to encode bundle meta", err)
	}

	if err := os.WriteFile(filepath.Join(w.dir, bundle.MetaFileName), payload, 0o644); err != nil {
		os.RemoveAll(w.dir)
		return nil, w.failed, apperrors.Filesystem("failed to write bundle meta", err)
	}

	return meta, w.failed, nil
}

func mimeForName(name string) string {
	if typ := mime.TypeByExtension(filepath.Ext(name)); typ != "" {
		return typ
	}
	return octetStream
}
