package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/postprocessors/chunker"
)

type cacheFixture struct {
	docsDir  string
	cacheDir string
	embedder *mockEmbedder
	store    *mockVectorStore
	metrics  *mockMetrics
	manager  *CacheManager
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()

	root := t.TempDir()
	f := &cacheFixture{
		docsDir:  filepath.Join(root, "resumeMaterial"),
		cacheDir: filepath.Join(root, "vector_cache"),
		embedder: &mockEmbedder{},
		store:    newMockVectorStore(),
		metrics:  &mockMetrics{},
	}

	splitter, err := chunker.New(chunker.WithChunkSize(10), chunker.WithOverlap(3))
	require.NoError(t, err)

	f.manager = NewCacheManager(CacheManagerConfig{
		Loader:   NewDocumentLoader(&mockRegistry{}),
		Splitter: splitter,
		Builder:  NewIndexBuilder(f.embedder, f.store, 2, 2),
		Store:    f.store,
		Metrics:  f.metrics,
		DocsDir:  f.docsDir,
		CacheDir: f.cacheDir,
	})
	return f
}

func (f *cacheFixture) writeDocs(t *testing.T) {
	t.Helper()
	writeFile(t, f.docsDir, "a.txt", "Alpha bravo charlie.")
	writeFile(t, f.docsDir, "b.txt", "Delta echo foxtrot golf")
}

func readSavedSnapshot(t *testing.T, dir string) domain.Snapshot {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	require.NoError(t, err)

	var meta struct {
		Snapshot domain.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(data, &meta))
	return meta.Snapshot
}

func TestCacheManager_ColdStartBuildsAndPersists(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)

	report, err := f.manager.Ensure(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.CacheCold, report.State)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 6, report.Chunks)
	assert.ErrorIs(t, report.Reason, domain.ErrCacheMiss)
	assert.Equal(t, []string{"miss"}, f.metrics.events)
	assert.Equal(t, []domain.CacheState{domain.CacheCold}, f.metrics.ready)

	var firstDoc [][2]int
	for _, c := range f.manager.Index().Chunks() {
		if filepath.Base(c.SourcePath) == "a.txt" {
			firstDoc = append(firstDoc, [2]int{c.StartOffset, c.EndOffset})
		}
	}
	assert.Equal(t, [][2]int{{0, 10}, {7, 17}, {14, 20}}, firstDoc)

	files, err := NewDocumentLoader(&mockRegistry{}).ListSourceFiles(f.docsDir)
	require.NoError(t, err)
	current, err := BuildSnapshot(files)
	require.NoError(t, err)
	assert.True(t, readSavedSnapshot(t, f.cacheDir).Equal(current))
	assert.FileExists(t, filepath.Join(f.cacheDir, "index.mock"))
}

func TestCacheManager_WarmStartMakesNoEmbeddingCalls(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)

	_, err := f.manager.Ensure(context.Background(), false)
	require.NoError(t, err)
	callsAfterBuild := f.embedder.calls.Load()
	require.Positive(t, callsAfterBuild)

	report, err := f.manager.Ensure(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.CacheWarm, report.State)
	assert.NoError(t, report.Reason)
	assert.Equal(t, 6, report.Chunks)
	assert.Equal(t, callsAfterBuild, f.embedder.calls.Load(), "warm start must not embed")
	assert.Equal(t, 1, f.store.saves)
}

func TestCacheManager_StaleSnapshotRebuilds(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)

	_, err := f.manager.Ensure(context.Background(), false)
	require.NoError(t, err)

	path := writeFile(t, f.docsDir, "a.txt", "Alpha bravo charlie delta.")
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	report, err := f.manager.Ensure(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.CacheCold, report.State)
	assert.ErrorIs(t, report.Reason, domain.ErrCacheStale)
	assert.Contains(t, report.Reason.Error(), path)
	assert.Equal(t, 2, f.store.saves)

	files, err := NewDocumentLoader(&mockRegistry{}).ListSourceFiles(f.docsDir)
	require.NoError(t, err)
	current, err := BuildSnapshot(files)
	require.NoError(t, err)
	assert.True(t, readSavedSnapshot(t, f.cacheDir).Equal(current), "new snapshot persisted")
}

func TestCacheManager_AddedFileIsStale(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)

	_, err := f.manager.Ensure(context.Background(), false)
	require.NoError(t, err)

	added := writeFile(t, f.docsDir, "c.txt", "Hotel india")

	report, err := f.manager.Ensure(context.Background(), false)

	require.NoError(t, err)
	assert.ErrorIs(t, report.Reason, domain.ErrCacheStale)
	assert.Contains(t, report.Reason.Error(), added+" added")
	assert.Equal(t, 3, report.Files)
}

func TestCacheManager_CorruptIndexRebuilds(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)

	_, err := f.manager.Ensure(context.Background(), false)
	require.NoError(t, err)

	f.store.loadErr = errors.New("file is not a database")

	report, err := f.manager.Ensure(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.CacheCold, report.State)
	assert.ErrorIs(t, report.Reason, domain.ErrCacheCorrupt)
	assert.Contains(t, f.metrics.events, "corrupt")
}

func TestCacheManager_UnparsableMetadataIsMiss(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)
	writeFile(t, f.cacheDir, MetadataFileName, "{not json")

	report, err := f.manager.Ensure(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.CacheCold, report.State)
	assert.ErrorIs(t, report.Reason, domain.ErrCacheMiss)
	assert.Zero(t, f.store.loads, "index is not loaded without metadata")
}

func TestCacheManager_ForceIgnoresValidCache(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)

	_, err := f.manager.Ensure(context.Background(), false)
	require.NoError(t, err)

	report, err := f.manager.Ensure(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, domain.CacheCold, report.State)
	assert.Equal(t, 2, f.store.saves)
	assert.Contains(t, f.metrics.events, "forced")
}

func TestCacheManager_NoDocumentsWritesNothing(t *testing.T) {
	f := newCacheFixture(t)
	require.NoError(t, os.MkdirAll(f.docsDir, 0o755))

	_, err := f.manager.Ensure(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrNoDocumentsFound)
	assert.Nil(t, f.manager.Index())
	_, statErr := os.Stat(f.cacheDir)
	assert.True(t, os.IsNotExist(statErr), "cache directory must not be created")
}

func TestCacheManager_EmbeddingFailureIsFatal(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)
	f.embedder.err = errors.New("401 unauthorized")

	_, err := f.manager.Ensure(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.NoFileExists(t, filepath.Join(f.cacheDir, MetadataFileName))
}

func TestCacheManager_SaveFailureSkipsMetadata(t *testing.T) {
	f := newCacheFixture(t)
	f.writeDocs(t)
	f.store.saveErr = errors.New("disk full")

	_, err := f.manager.Ensure(context.Background(), false)

	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(f.cacheDir, MetadataFileName))
}

func TestWriteMetadata_Format(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new")
	snap := domain.Snapshot{"/docs/a.txt": {MtimeSeconds: 1700000000, SizeBytes: 20}}

	require.NoError(t, writeMetadata(dir, snap))

	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"snapshot": {"/docs/a.txt": {"mtime": 1700000000, "size": 20}}}`, string(data))

	got, err := readMetadata(dir)
	require.NoError(t, err)
	assert.True(t, got.Equal(snap))
}

func TestReadMetadata_MissingSnapshotKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, MetadataFileName, `{"other": 1}`)

	_, err := readMetadata(dir)
	assert.Error(t, err)
}
