package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// BuildSnapshot fingerprints each file by size and whole-second mtime.
func BuildSnapshot(files []string) (domain.Snapshot, error) {
	snap := make(domain.Snapshot, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		snap[path] = domain.FileFingerprint{
			MtimeSeconds: info.ModTime().Unix(),
			SizeBytes:    info.Size(),
		}
	}
	return snap, nil
}
