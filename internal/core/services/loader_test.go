package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

func TestListSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "b")
	writeFile(t, root, "a.DOCX", "a")
	writeFile(t, root, "nested/deeper/c.TxT", "c")
	writeFile(t, root, "notes.md", "ignored")
	writeFile(t, root, "scan.pdf", "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "folder.txt"), 0o755))

	files, err := NewDocumentLoader(&mockRegistry{}).ListSourceFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.DOCX"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "nested", "deeper", "c.TxT"),
	}, files)
}

func TestListSourceFiles_SkipsUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}
	root := t.TempDir()
	writeFile(t, root, "cv.txt", "x")
	writeFile(t, root, "private/secret.txt", "y")
	locked := filepath.Join(root, "private")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, err := NewDocumentLoader(&mockRegistry{}).ListSourceFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "cv.txt")}, files)
}

func TestListSourceFiles_RelativeRootBecomesAbsolute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "cv.txt", "x")
	t.Chdir(root)

	files, err := NewDocumentLoader(&mockRegistry{}).ListSourceFiles(".")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]))
	assert.Equal(t, "cv.txt", filepath.Base(files[0]))
}

func TestListSourceFiles_NoDocuments(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name:  "empty directory",
			setup: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name: "only unsupported files",
			setup: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, root, "cv.pdf", "x")
				return root
			},
		},
		{
			name:  "missing directory",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocumentLoader(&mockRegistry{}).ListSourceFiles(tt.setup(t))
			assert.ErrorIs(t, err, domain.ErrNoDocumentsFound)
		})
	}
}

func TestLoadDocuments(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "first")
	b := writeFile(t, root, "b.txt", "second")

	docs, err := NewDocumentLoader(&mockRegistry{}).LoadDocuments(context.Background(), []string{a, b})

	require.NoError(t, err)
	assert.Equal(t, []domain.SourceDocument{
		{Content: "first", SourcePath: a},
		{Content: "second", SourcePath: b},
	}, docs)
}

func TestLoadDocuments_AbortsOnFirstFailure(t *testing.T) {
	root := t.TempDir()
	good := writeFile(t, root, "a.txt", "fine")
	bad := writeFile(t, root, "b.txt", "broken")

	docs, err := NewDocumentLoader(&mockRegistry{failPath: bad}).LoadDocuments(context.Background(), []string{good, bad})

	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestLoadDocuments_ReadFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.txt")

	_, err := NewDocumentLoader(&mockRegistry{}).LoadDocuments(context.Background(), []string{missing})

	var decodeErr *domain.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, missing, decodeErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDocuments_CancelledContext(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDocumentLoader(&mockRegistry{}).LoadDocuments(ctx, []string{a})

	assert.ErrorIs(t, err, context.Canceled)
}
