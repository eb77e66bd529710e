package services

import (
	"time"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Ensure NopMetrics implements the interface.
var _ driven.MetricsRecorder = NopMetrics{}

// NopMetrics discards all measurements.
type NopMetrics struct{}

// ObserveAnswer does nothing.
func (NopMetrics) ObserveAnswer(string, time.Duration) {}

// IndexReady does nothing.
func (NopMetrics) IndexReady(domain.CacheState, int) {}

// CacheEvent does nothing.
func (NopMetrics) CacheEvent(string) {}
