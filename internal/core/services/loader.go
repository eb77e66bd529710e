package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/resume-assistant/internal/logger"
)

// DocumentLoader discovers resume files and extracts their text.
type DocumentLoader struct {
	registry driven.NormaliserRegistry
}

// NewDocumentLoader creates a loader that accepts every extension the
// registry can normalise.
func NewDocumentLoader(registry driven.NormaliserRegistry) *DocumentLoader {
	return &DocumentLoader{registry: registry}
}

// ListSourceFiles returns the absolute paths of all supported regular files
// under root, sorted. Extensions match case-insensitively.
// Unreadable subdirectories are skipped with a warning.
// An empty result, or a missing root, fails with ErrNoDocumentsFound.
func (l *DocumentLoader) ListSourceFiles(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	supported := make(map[string]bool)
	for _, ext := range l.registry.SupportedExtensions() {
		supported[strings.ToLower(ext)] = true
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != abs && d != nil && d.IsDir() && errors.Is(err, fs.ErrPermission) {
				logger.Warn("Skipping unreadable directory %s: %v", path, err)
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !supported[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", domain.ErrNoDocumentsFound, abs)
	}
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", abs, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (supported: %s)", domain.ErrNoDocumentsFound, abs,
			strings.Join(l.registry.SupportedExtensions(), ", "))
	}

	sort.Strings(files)
	logger.Debug("Discovered %d source files under %s", len(files), abs)
	return files, nil
}

// isRegularFile accepts regular files and symlinks that resolve to one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadDocuments reads and normalises every file in order.
// The first failure aborts the whole load.
func (l *DocumentLoader) LoadDocuments(ctx context.Context, files []string) ([]domain.SourceDocument, error) {
	docs := make([]domain.SourceDocument, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &domain.DecodeError{Path: path, Err: err}
		}

		result, err := l.registry.Normalise(ctx, &domain.RawDocument{
			Path:      path,
			Extension: strings.ToLower(filepath.Ext(path)),
			Content:   content,
		})
		if err != nil {
			return nil, err
		}

		logger.Debug("Loaded %s (%d bytes)", path, len(content))
		docs = append(docs, result.Document)
	}
	return docs, nil
}
