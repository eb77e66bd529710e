package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/resume-assistant/internal/logger"
)

// MetadataFileName is the snapshot file written inside the cache directory.
const MetadataFileName = "metadata.json"

// Ensure CacheManager implements the interface.
var _ driving.IndexService = (*CacheManager)(nil)

var errForcedRebuild = errors.New("rebuild forced")

// cacheMetadata is the on-disk form of metadata.json.
type cacheMetadata struct {
	Snapshot domain.Snapshot `json:"snapshot"`
}

// CacheManager decides at startup whether the persisted index can be reused
// and rebuilds it when it cannot.
type CacheManager struct {
	loader   *DocumentLoader
	splitter driven.Splitter
	builder  *IndexBuilder
	store    driven.VectorStore
	metrics  driven.MetricsRecorder
	docsDir  string
	cacheDir string

	mu    sync.RWMutex
	index driven.VectorIndex
}

// CacheManagerConfig holds the collaborators of a CacheManager.
type CacheManagerConfig struct {
	Loader   *DocumentLoader
	Splitter driven.Splitter
	Builder  *IndexBuilder
	Store    driven.VectorStore
	Metrics  driven.MetricsRecorder // optional
	DocsDir  string
	CacheDir string
}

// NewCacheManager creates a cache manager.
func NewCacheManager(cfg CacheManagerConfig) *CacheManager {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CacheManager{
		loader:   cfg.Loader,
		splitter: cfg.Splitter,
		builder:  cfg.Builder,
		store:    cfg.Store,
		metrics:  metrics,
		docsDir:  cfg.DocsDir,
		cacheDir: cfg.CacheDir,
	}
}

// Index returns the index produced by the last successful Ensure, or nil.
func (m *CacheManager) Index() driven.VectorIndex {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index
}

// Ensure makes a vector index available, reusing the persisted one when the
// document snapshot is unchanged. Cache problems lead to a rebuild; document
// and embedding failures are returned.
func (m *CacheManager) Ensure(ctx context.Context, force bool) (domain.IndexReport, error) {
	logger.Section("Index Startup")

	files, err := m.loader.ListSourceFiles(m.docsDir)
	if err != nil {
		return domain.IndexReport{}, err
	}

	snapshot, err := BuildSnapshot(files)
	if err != nil {
		return domain.IndexReport{}, err
	}

	var reason error
	if force {
		reason = errForcedRebuild
		m.metrics.CacheEvent(driven.CacheEventForced)
		logger.Info("Rebuilding vector index: %v", reason)
	} else {
		index, err := m.tryLoad(ctx, snapshot)
		if err == nil {
			m.setIndex(index)
			m.metrics.IndexReady(domain.CacheWarm, len(index.Chunks()))
			logger.Info("Loaded cached vector index from %s (%d chunks)", m.cacheDir, len(index.Chunks()))
			return domain.IndexReport{State: domain.CacheWarm, Files: len(files), Chunks: len(index.Chunks())}, nil
		}
		reason = err
		m.recordCacheFailure(err)
	}

	index, err := m.rebuild(ctx, files, snapshot)
	if err != nil {
		return domain.IndexReport{}, err
	}

	m.setIndex(index)
	m.metrics.IndexReady(domain.CacheCold, len(index.Chunks()))
	return domain.IndexReport{
		State:  domain.CacheCold,
		Files:  len(files),
		Chunks: len(index.Chunks()),
		Reason: reason,
	}, nil
}

// tryLoad returns the persisted index if its snapshot matches current.
// Failures carry ErrCacheMiss, ErrCacheStale or ErrCacheCorrupt.
func (m *CacheManager) tryLoad(ctx context.Context, current domain.Snapshot) (driven.VectorIndex, error) {
	saved, err := readMetadata(m.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}

	if !saved.Equal(current) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCacheStale, saved.Diff(current))
	}

	index, err := m.store.Load(ctx, m.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheCorrupt, err)
	}
	return index, nil
}

func (m *CacheManager) recordCacheFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrCacheCorrupt):
		m.metrics.CacheEvent(driven.CacheEventCorrupt)
		logger.Warn("Cached vector index in %s is unusable, rebuilding: %v", m.cacheDir, err)
	case errors.Is(err, domain.ErrCacheStale):
		m.metrics.CacheEvent(driven.CacheEventStale)
		logger.Info("Documents changed since %s was written, rebuilding: %v", m.cacheDir, err)
	default:
		m.metrics.CacheEvent(driven.CacheEventMiss)
		logger.Info("No usable cache metadata in %s, rebuilding: %v", m.cacheDir, err)
	}
}

// rebuild loads, splits and embeds the documents, then persists the index
// followed by the snapshot.
func (m *CacheManager) rebuild(ctx context.Context, files []string, snapshot domain.Snapshot) (driven.VectorIndex, error) {
	docs, err := m.loader.LoadDocuments(ctx, files)
	if err != nil {
		return nil, err
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, m.splitter.Split(doc)...)
	}
	logger.Debug("Split %d documents into %d chunks", len(docs), len(chunks))

	index, err := m.builder.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, index, m.cacheDir); err != nil {
		return nil, fmt.Errorf("saving vector index: %w", err)
	}
	if err := writeMetadata(m.cacheDir, snapshot); err != nil {
		return nil, fmt.Errorf("saving cache metadata: %w", err)
	}

	logger.Info("Built vector index from %d files (%d chunks) into %s", len(files), len(chunks), m.cacheDir)
	return index, nil
}

func (m *CacheManager) setIndex(index driven.VectorIndex) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = index
}

func readMetadata(dir string) (domain.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return nil, err
	}

	var meta cacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MetadataFileName, err)
	}
	if meta.Snapshot == nil {
		return nil, fmt.Errorf("%s has no snapshot", MetadataFileName)
	}
	return meta.Snapshot, nil
}

// writeMetadata replaces dir/metadata.json via a temp file and rename.
func writeMetadata(dir string, snapshot domain.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cacheMetadata{Snapshot: snapshot}, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, MetadataFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
