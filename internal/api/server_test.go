package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	m.Run()
}

type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	err     error
	started chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{started: make(chan struct{}, 16)}
}

func (f *fakeRunner) Run(_ context.Context, startURLs []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, startURLs)
	f.mu.Unlock()
	f.started <- struct{}{}
	return f.err
}

func TestHealthAndReadiness(t *testing.T) {
	t.Parallel()

	s := NewServer(newFakeRunner(), zap.NewNop())

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := NewServer(newFakeRunner(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitExtractionRunsJob(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	s := NewServer(runner, zap.NewNop())

	body, err := json.Marshal(map[string]any{"start_urls": []string{"https://acme.com"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/extractions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	jobID := resp["job_id"]
	require.NotEmpty(t, jobID)

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("runner was not invoked")
	}

	runner.mu.Lock()
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"https://acme.com"}, runner.calls[0])
	runner.mu.Unlock()

	// Poll the job until the background goroutine records completion.
	deadline := time.Now().Add(2 * time.Second)
	for {
		statusReq := httptest.NewRequest(http.MethodGet, "/v1/extractions/"+jobID, nil)
		statusRec := httptest.NewRecorder()
		s.Handler().ServeHTTP(statusRec, statusReq)
		require.Equal(t, http.StatusOK, statusRec.Code)

		var got struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &got))
		if got.Status == string(JobDone) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never finished, last status %q", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubmitExtractionValidation(t *testing.T) {
	t.Parallel()

	s := NewServer(newFakeRunner(), zap.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{"},
		{name: "empty urls", body: `{"start_urls": []}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/v1/extractions", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetExtractionNotFound(t *testing.T) {
	t.Parallel()

	s := NewServer(newFakeRunner(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/extractions/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
