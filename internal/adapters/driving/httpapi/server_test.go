package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
)

type mockAnswerService struct {
	mu       sync.Mutex
	result   string
	err      error
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.question = question
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return domain.Answer{Result: m.result}, nil
}

type mockMetrics struct {
	mu       sync.Mutex
	requests []string
}

func (m *mockMetrics) ObserveRequest(route string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, fmt.Sprintf("%s %d", route, code))
}

func (m *mockMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "# metrics\n") //nolint:errcheck
	})
}

func newTestServer(t *testing.T, answers *mockAnswerService, origins ...string) (*Server, *mockMetrics) {
	t.Helper()
	metrics := &mockMetrics{}
	server, err := NewServer(Config{AllowedOrigins: origins}, answers, metrics)
	require.NoError(t, err)
	return server, metrics
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_RequiresAnswerService(t *testing.T) {
	_, err := NewServer(Config{}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingAnswerService)
}

func TestRoot(t *testing.T) {
	server, _ := newTestServer(t, &mockAnswerService{})

	rec := do(t, server, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String())
}

func TestAskGet(t *testing.T) {
	t.Run("answers the question", func(t *testing.T) {
		answers := &mockAnswerService{result: "Go and Python."}
		server, _ := newTestServer(t, answers)

		rec := do(t, server, httptest.NewRequest(http.MethodGet, "/ask?question=Which+languages%3F", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"answer":"Go and Python."}`, rec.Body.String())
		assert.Equal(t, "Which languages?", answers.question)
	})

	t.Run("missing question is 400", func(t *testing.T) {
		answers := &mockAnswerService{}
		server, _ := newTestServer(t, answers)

		rec := do(t, server, httptest.NewRequest(http.MethodGet, "/ask", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, answers.question)
	})

	t.Run("answer failure is 502", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{err: errors.New("upstream down")})

		rec := do(t, server, httptest.NewRequest(http.MethodGet, "/ask?question=hi", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"upstream down"}`, rec.Body.String())
	})

	t.Run("invalid input from service is 400", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{err: domain.ErrInvalidInput})

		rec := do(t, server, httptest.NewRequest(http.MethodGet, "/ask?question=hi", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAskPost(t *testing.T) {
	t.Run("answers the question", func(t *testing.T) {
		answers := &mockAnswerService{result: "Yes."}
		server, _ := newTestServer(t, answers)

		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"Remote?"}`))
		rec := do(t, server, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"answer":"Yes."}`, rec.Body.String())
		assert.Equal(t, "Remote?", answers.question)
	})

	t.Run("bad JSON is 400", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{})

		rec := do(t, server, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid JSON")
	})

	t.Run("oversized body is 413", func(t *testing.T) {
		answers := &mockAnswerService{}
		server, _ := newTestServer(t, answers)

		body := `{"question":"` + strings.Repeat("a", maxAskBodyBytes) + `"}`
		rec := do(t, server, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Empty(t, answers.question)
	})
}

func TestRequestID(t *testing.T) {
	server, _ := newTestServer(t, &mockAnswerService{})

	t.Run("generated when absent", func(t *testing.T) {
		rec := do(t, server, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rec := do(t, server, req)
		assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	})
}

func TestCORS(t *testing.T) {
	preflight := func(path, origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		return req
	}

	t.Run("preflight is 204", func(t *testing.T) {
		answers := &mockAnswerService{}
		server, _ := newTestServer(t, answers, "*")

		rec := do(t, server, preflight("/ask", "https://example.com"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Empty(t, answers.question)
	})

	t.Run("preflight on unknown path", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{}, "https://a.example")

		rec := do(t, server, preflight("/nope", "https://a.example"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("not found responses carry CORS headers", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{}, "https://a.example")

		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		req.Header.Set("Origin", "https://a.example")
		rec := do(t, server, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin on simple request", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{}, "https://a.example")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://a.example")
		rec := do(t, server, req)

		assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origin gets no CORS headers", func(t *testing.T) {
		server, _ := newTestServer(t, &mockAnswerService{}, "https://a.example")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://b.example")
		rec := do(t, server, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestMetrics(t *testing.T) {
	server, metrics := newTestServer(t, &mockAnswerService{result: "ok"})

	do(t, server, httptest.NewRequest(http.MethodGet, "/ask?question=q", nil))
	do(t, server, httptest.NewRequest(http.MethodGet, "/ask", nil))
	rec := do(t, server, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
	assert.Equal(t, []string{"/ask 200", "/ask 400", "/metrics 200"}, metrics.requests)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	server, _ := newTestServer(t, &mockAnswerService{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
