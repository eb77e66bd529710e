package cli

import (
	"context"
	"testing"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/resume-assistant/internal/metrics"
)

type mockAnswerService struct {
	result   string
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.question = question
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return domain.Answer{Result: m.result}, nil
}

// fakeRuntime is a Runtime backed by canned values.
type fakeRuntime struct {
	settings  domain.Settings
	report    domain.IndexReport
	ensureErr error
	answers   *mockAnswerService
	recorder  *metrics.Recorder

	withLLM bool
	force   bool
	closed  bool
}

func (f *fakeRuntime) Ensure(_ context.Context, force bool) (domain.IndexReport, error) {
	f.force = force
	return f.report, f.ensureErr
}

func (f *fakeRuntime) Settings() domain.Settings { return f.settings }

func (f *fakeRuntime) Answerer() (driving.AnswerService, error) {
	if f.answers == nil {
		return nil, errIndexNotReady
	}
	return f.answers, nil
}

func (f *fakeRuntime) Metrics() *metrics.Recorder { return f.recorder }

func (f *fakeRuntime) Close() { f.closed = true }

// useFakeRuntime swaps newRuntime for the test and resets command flags.
func useFakeRuntime(t *testing.T, rt *fakeRuntime) {
	t.Helper()
	if rt.recorder == nil {
		rt.recorder = metrics.New()
	}

	oldRuntime, oldEnv := newRuntime, envFile
	newRuntime = func(withLLM bool) (Runtime, error) {
		rt.withLLM = withLLM
		return rt, nil
	}
	envFile = "testdata-missing.env"

	t.Cleanup(func() {
		newRuntime, envFile = oldRuntime, oldEnv
		askJSON, indexForce, serveAddr = false, false, ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}
