// Package folderref normalizes caller-supplied folder references, either
// canonical Drive folder IDs or shareable URLs, into canonical IDs.
package folderref

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned when no folder ID can be extracted.
// Callers must treat this as a client error, not a backend failure.
type ErrInvalidReference struct {
	Ref string
}

func (e *ErrInvalidReference) Error() string {
	return fmt.Sprintf("not a folder ID or a recognized folder URL: %q", e.Ref)
}

// idPattern is the canonical folder identifier grammar: an opaque token of
// letters, digits, hyphens and underscores. Real Drive IDs are well over
// 10 characters, which keeps short words like "folders" from matching.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)

// Resolve returns the canonical folder ID embedded in ref.
// A string already matching the ID grammar is returned unchanged.
func Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &ErrInvalidReference{Ref: ref}
	}

	if idPattern.MatchString(ref) {
		return ref, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", &ErrInvalidReference{Ref: ref}
	}

	// Share URL shape: .../folders/<id>[/...]
	if id := afterFoldersSegment(u.Path); id != "" && idPattern.MatchString(id) {
		return id, nil
	}

	// Legacy shape: ...?id=<id>
	if id := u.Query().Get("id"); id != "" && idPattern.MatchString(id) {
		return id, nil
	}

	return "", &ErrInvalidReference{Ref: ref}
}

func afterFoldersSegment(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg == "folders" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}
