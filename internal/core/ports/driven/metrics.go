package driven

import (
	"time"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

// Cache event reasons reported to MetricsRecorder.CacheEvent.
const (
	CacheEventMiss    = "miss"
	CacheEventStale   = "stale"
	CacheEventCorrupt = "corrupt"
	CacheEventForced  = "forced"
)

// Answer outcomes reported to MetricsRecorder.ObserveAnswer.
const (
	AnswerOutcomeOK    = "ok"
	AnswerOutcomeError = "error"
)

// MetricsRecorder receives operational measurements from the core services.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// ObserveAnswer records one answered (or failed) question.
	ObserveAnswer(outcome string, elapsed time.Duration)

	// IndexReady records the outcome of a startup index build.
	IndexReady(state domain.CacheState, chunks int)

	// CacheEvent records why a persisted cache could not be reused.
	CacheEvent(reason string)
}
