package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-assistant/internal/adapters/driven/ai"
	"github.com/custodia-labs/resume-assistant/internal/adapters/driven/config/file"
	"github.com/custodia-labs/resume-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/resume-assistant/internal/core/services"
	"github.com/custodia-labs/resume-assistant/internal/logger"
	"github.com/custodia-labs/resume-assistant/internal/metrics"
	"github.com/custodia-labs/resume-assistant/internal/normalisers"
	"github.com/custodia-labs/resume-assistant/internal/postprocessors/chunker"
)

// errIndexNotReady is returned when answering is requested before Ensure.
var errIndexNotReady = errors.New("vector index is not ready")

// Runtime is the wired application behind the commands.
type Runtime interface {
	driving.IndexService

	// Settings returns the resolved settings.
	Settings() domain.Settings

	// Answerer returns an answer service over the index built by Ensure.
	Answerer() (driving.AnswerService, error)

	// Metrics returns the Prometheus recorder.
	Metrics() *metrics.Recorder

	// Close releases external clients.
	Close()
}

// newRuntime builds the runtime. withLLM also wires the completion model.
// Tests replace it with a fake.
var newRuntime = buildRuntime

type appRuntime struct {
	settings domain.Settings
	metrics  *metrics.Recorder
	ai       *ai.InitResult
	cache    *services.CacheManager
}

// openConfigStore opens the config store in --config or the default directory.
func openConfigStore() (*file.ConfigStore, error) {
	dir := configDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultConfigDir(); err != nil {
			return nil, err
		}
	}
	return file.NewConfigStore(dir)
}

// resolveSettings reads the config file and applies environment overrides.
func resolveSettings() (domain.Settings, error) {
	store, err := openConfigStore()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("opening config: %w", err)
	}
	return services.LoadSettings(store, os.LookupEnv)
}

func buildRuntime(withLLM bool) (Runtime, error) {
	settings, err := resolveSettings()
	if err != nil {
		return nil, err
	}

	validate := settings.ValidateIndexing
	if withLLM {
		validate = settings.Validate
	}
	if err := validate(); err != nil {
		return nil, err
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return nil, err
	}

	aiResult, err := ai.Init(settings, withLLM)
	if err != nil {
		return nil, err
	}

	recorder := metrics.New()
	store := sqlite.NewIndexStore()
	cache := services.NewCacheManager(services.CacheManagerConfig{
		Loader:   services.NewDocumentLoader(normalisers.NewDefaultRegistry()),
		Splitter: splitter,
		Builder: services.NewIndexBuilder(aiResult.EmbeddingService, store,
			settings.Embedding.BatchSize, settings.Embedding.Concurrency),
		Store:    store,
		Metrics:  recorder,
		DocsDir:  settings.Documents.Dir,
		CacheDir: settings.Cache.Dir,
	})

	logger.Debug("documents=%s cache=%s embedding=%s llm=%s",
		settings.Documents.Dir, settings.Cache.Dir, settings.Embedding.Model, settings.LLM.Model)

	return &appRuntime{
		settings: settings,
		metrics:  recorder,
		ai:       aiResult,
		cache:    cache,
	}, nil
}

func (r *appRuntime) Ensure(ctx context.Context, force bool) (domain.IndexReport, error) {
	return r.cache.Ensure(ctx, force)
}

func (r *appRuntime) Settings() domain.Settings { return r.settings }

func (r *appRuntime) Metrics() *metrics.Recorder { return r.metrics }

func (r *appRuntime) Answerer() (driving.AnswerService, error) {
	index := r.cache.Index()
	if index == nil {
		return nil, errIndexNotReady
	}
	if r.ai.LLMService == nil {
		return nil, domain.ErrMissingModelName
	}
	return services.NewAnswerService(services.AnswerServiceConfig{
		Index:       index,
		Embedder:    r.ai.EmbeddingService,
		LLM:         r.ai.LLMService,
		Prompts:     r.ai.PromptStore,
		Metrics:     r.metrics,
		TopK:        r.settings.Retrieval.TopK,
		Temperature: r.settings.LLM.Temperature,
	}), nil
}

func (r *appRuntime) Close() {
	r.ai.Close()
}

// startup builds the runtime and runs the startup index build.
// The caller must Close the returned runtime.
func startup(cmd *cobra.Command, withLLM, force bool) (Runtime, domain.IndexReport, error) {
	rt, err := newRuntime(withLLM)
	if err != nil {
		return nil, domain.IndexReport{}, err
	}

	report, err := rt.Ensure(cmd.Context(), force)
	if err != nil {
		rt.Close()
		return nil, domain.IndexReport{}, fmt.Errorf("building index: %w", err)
	}

	logger.Info("index %s: %d files, %d chunks", report.State, report.Files, report.Chunks)
	return rt, report, nil
}
