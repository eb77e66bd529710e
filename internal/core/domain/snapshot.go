package domain

import (
	"fmt"
	"sort"
)

// FileFingerprint is the cheap change detector for one source file.
// Content is deliberately not hashed: a rewrite that keeps the size and
// lands in the same second is not detected.
type FileFingerprint struct {
	// MtimeSeconds is the modification time truncated to whole seconds.
	MtimeSeconds int64 `json:"mtime"`

	// SizeBytes is the file size.
	SizeBytes int64 `json:"size"`
}

// Snapshot maps absolute file path to fingerprint for the whole document set.
type Snapshot map[string]FileFingerprint

// Equal reports whether both snapshots cover the same paths with
// identical fingerprints.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for path, fp := range s {
		theirs, ok := other[path]
		if !ok || theirs != fp {
			return false
		}
	}
	return true
}

// Diff describes the first path, in sorted order, whose fingerprint differs
// between s (the cached snapshot) and current. It returns "" when they are equal.
func (s Snapshot) Diff(current Snapshot) string {
	paths := make([]string, 0, len(s)+len(current))
	for path := range s {
		paths = append(paths, path)
	}
	for path := range current {
		if _, ok := s[path]; !ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		cached, inCache := s[path]
		now, inCurrent := current[path]
		switch {
		case !inCurrent:
			return fmt.Sprintf("%s removed", path)
		case !inCache:
			return fmt.Sprintf("%s added", path)
		case cached.SizeBytes != now.SizeBytes:
			return fmt.Sprintf("%s size changed (%d -> %d bytes)", path, cached.SizeBytes, now.SizeBytes)
		case cached.MtimeSeconds != now.MtimeSeconds:
			return fmt.Sprintf("%s modified (mtime %d -> %d)", path, cached.MtimeSeconds, now.MtimeSeconds)
		}
	}
	return ""
}
