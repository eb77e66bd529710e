package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDocumentsDir     = "documents.dir"
	keyCacheDir         = "cache.dir"
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyTopK             = "retrieval.top_k"
	keyLLMModel         = "llm.model"
	keyLLMTemperature   = "llm.temperature"
	keyOpenAIAPIKey     = "openai.api_key"
	keyOpenAIBaseURL    = "openai.base_url"
	keyEmbedModel       = "embedding.model"
	keyEmbedBatchSize   = "embedding.batch_size"
	keyEmbedConcurrency = "embedding.concurrency"
	keyEmbedRateLimit   = "embedding.requests_per_second"
	keyServerAddr       = "server.addr"
	keyServerOrigins    = "server.allowed_origins"
	keyPromptsDir       = "prompts.dir"
)

// Environment variables that override config file values.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvDocumentsDir   = "RESUME_DOCS_DIR"
	EnvCacheDir       = "RAG_FAISS_CACHE_DIR"
	EnvLLMModel       = "OPENAI_LLM_MODEL"
	EnvLLMTemperature = "OPENAI_LLM_TEMPERATURE"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvEmbedModel     = "OPENAI_EMBEDDING_MODEL"
	EnvServerAddr     = "RESUME_SERVER_ADDR"
)

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// LoadSettings resolves settings from defaults, then the config store, then
// environment variables. store may be nil and lookup defaults to os.LookupEnv.
// The result is not validated; call Validate or ValidateIndexing.
func LoadSettings(store driven.ConfigStore, lookup LookupEnv) (domain.Settings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	s := domain.DefaultSettings()

	if store != nil {
		setString(&s.Documents.Dir, store, keyDocumentsDir)
		setString(&s.Cache.Dir, store, keyCacheDir)
		setInt(&s.Chunking.Size, store, keyChunkSize)
		setInt(&s.Chunking.Overlap, store, keyChunkOverlap)
		setInt(&s.Retrieval.TopK, store, keyTopK)
		setString(&s.LLM.Model, store, keyLLMModel)
		setFloat(&s.LLM.Temperature, store, keyLLMTemperature)
		setString(&s.OpenAI.APIKey, store, keyOpenAIAPIKey)
		setString(&s.OpenAI.BaseURL, store, keyOpenAIBaseURL)
		setString(&s.Embedding.Model, store, keyEmbedModel)
		setInt(&s.Embedding.BatchSize, store, keyEmbedBatchSize)
		setInt(&s.Embedding.Concurrency, store, keyEmbedConcurrency)
		setFloat(&s.Embedding.RequestsPerSecond, store, keyEmbedRateLimit)
		setString(&s.Server.Addr, store, keyServerAddr)
		setString(&s.Prompts.Dir, store, keyPromptsDir)
		if _, ok := store.Get(keyServerOrigins); ok {
			s.Server.AllowedOrigins = store.GetStringSlice(keyServerOrigins)
		}
	}

	envStrings := []struct {
		name   string
		target *string
	}{
		{EnvDocumentsDir, &s.Documents.Dir},
		{EnvCacheDir, &s.Cache.Dir},
		{EnvLLMModel, &s.LLM.Model},
		{EnvOpenAIAPIKey, &s.OpenAI.APIKey},
		{EnvOpenAIBaseURL, &s.OpenAI.BaseURL},
		{EnvEmbedModel, &s.Embedding.Model},
		{EnvServerAddr, &s.Server.Addr},
	}
	for _, e := range envStrings {
		if v, ok := lookup(e.name); ok && strings.TrimSpace(v) != "" {
			*e.target = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(EnvLLMTemperature); ok && strings.TrimSpace(v) != "" {
		t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidInput, EnvLLMTemperature, v)
		}
		s.LLM.Temperature = t
	}

	return s, nil
}

func setString(target *string, store driven.ConfigStore, key string) {
	if v := store.GetString(key); v != "" {
		*target = v
	}
}

func setInt(target *int, store driven.ConfigStore, key string) {
	if _, ok := store.Get(key); ok {
		*target = store.GetInt(key)
	}
}

func setFloat(target *float64, store driven.ConfigStore, key string) {
	if _, ok := store.Get(key); ok {
		*target = store.GetFloat(key)
	}
}

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindList
)

var settingKinds = map[string]settingKind{
	keyDocumentsDir:     kindString,
	keyCacheDir:         kindString,
	keyChunkSize:        kindInt,
	keyChunkOverlap:     kindInt,
	keyTopK:             kindInt,
	keyLLMModel:         kindString,
	keyLLMTemperature:   kindFloat,
	keyOpenAIAPIKey:     kindString,
	keyOpenAIBaseURL:    kindString,
	keyEmbedModel:       kindString,
	keyEmbedBatchSize:   kindInt,
	keyEmbedConcurrency: kindInt,
	keyEmbedRateLimit:   kindFloat,
	keyServerAddr:       kindString,
	keyServerOrigins:    kindList,
	keyPromptsDir:       kindString,
}

// SettingKeys returns every config key understood by LoadSettings, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetSetting parses raw for the given key, stores it and saves the store.
// List values are comma separated.
func SetSetting(store driven.ConfigStore, key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	raw = strings.TrimSpace(raw)

	var value any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, raw)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, raw)
		}
		value = f
	case kindList:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		value = items
	default:
		value = raw
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
