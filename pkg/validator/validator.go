package validator

import (
	"fmt"
	"strings"

	apperrors "media-library/pkg/errors"
)

const (
	maxProjectNameLen = 255
	maxFileNameLen    = 255

	errProjectNameEmptyFmt     = "project name cannot be empty"
	errProjectNameMaxLengthFmt = "project name must not exceed %d characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNameTraversalFmt    = "file name cannot contain path traversal"
	errFileNamePathSepFmt      = "file name cannot contain path separators"
	errFileNameNullByteFmt     = "file name cannot contain null bytes"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
)

func ProjectName(name string) error {
	if name == "" {
		return apperrors.InvalidInput(errProjectNameEmptyFmt)
	}

	if len(name) > maxProjectNameLen {
		return apperrors.InvalidInput(fmt.Sprintf(errProjectNameMaxLengthFmt, maxProjectNameLen))
	}

	return nil
}

// FileName validates a client-supplied file name for use as a single path
// segment. It is the one place the traversal/separator/null blacklist lives;
// bundle staging and any future direct-upload path must all go through it.
func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf(errFileNameTraversalFmt)
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf(errFileNamePathSepFmt)
	}

	if strings.ContainsRune(name, '\x00') {
		return fmt.Errorf(errFileNameNullByteFmt)
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return fmt.Errorf(errFileNameControlCharsFmt)
		}
	}

	return nil
}

// Slugify derives a filesystem folder name from a display name: lower-case,
// every run of characters outside [a-z0-9] collapses to a single hyphen,
// leading and trailing hyphens are trimmed. "My Project v2.1" becomes
// "my-project-v2-1".
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lower))
	lastHyphen := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
