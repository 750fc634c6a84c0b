package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/causaltower/pkg/cache"
	"github.com/matzehuels/causaltower/pkg/observability"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

const frontDoor = `"Front-door"; X; M; Y; X -> M; M -> Y; X <-> Y;`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	logger := log.New(&strings.Builder{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	srv := httptest.NewServer(New(runner, logger, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", strings.NewReader(string(data)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeAnswer(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)
	body := decodeAnswer(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "dev", body["version"])
	assert.Contains(t, body, "commit")
}

func TestQueryTimeout(t *testing.T) {
	srv := newTestServer(t, Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	resp := post(t, srv.URL+"/v1/query", map[string]any{
		"graph": "X; A; B; C; D; E; F; G; H; I;",
		"kind":  "identify",
		"x":     []string{"X"},
		"mode":  "all",
	})
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestQueryIdentify(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/query", map[string]any{
		"graph": frontDoor,
		"kind":  "identify",
		"x":     []string{"X"},
		"y":     []string{"Y"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeAnswer(t, resp)
	assert.Equal(t, true, body["identifiable"])
	assert.Equal(t, "p_{X}(Y) = Σ_{M,X'}[p(Y|M,X')p(M|X)p(X')]", body["formula"])
}

func TestQueryNotIdentifiable(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/query", map[string]any{
		"graph": "X; Y; X -> Y; X <-> Y;",
		"kind":  "identify",
		"x":     []string{"X"},
		"y":     []string{"Y"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeAnswer(t, resp)
	assert.Equal(t, false, body["identifiable"])
	assert.Nil(t, body["formula"])
}

func TestQueryJSONGraph(t *testing.T) {
	srv := newTestServer(t, Options{})
	graph := `{"nodes":[{"id":"C"},{"id":"X"},{"id":"Y"}],` +
		`"edges":[{"from":"C","to":"X"},{"from":"C","to":"Y"},{"from":"X","to":"Y"}]}`
	resp := post(t, srv.URL+"/v1/query", map[string]any{
		"graph":  graph,
		"source": "json",
		"kind":   "factor",
		"x":      []string{"X"},
		"y":      []string{"Y"},
		"format": "latex",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeAnswer(t, resp)
	assert.Equal(t, `p_{X}(Y)=\sum_{C}[p(Y|C,X)p(C)]`, body["formula"])
}

func TestQueryErrors(t *testing.T) {
	srv := newTestServer(t, Options{MaxNodes: 3})

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"bad syntax", map[string]any{"graph": "A; B", "kind": "info"}, http.StatusBadRequest, "INVALID_SYNTAX"},
		{"missing graph", map[string]any{"kind": "info"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", map[string]any{"graph": "A;", "kind": "info", "bogus": 1}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad kind", map[string]any{"graph": "A;", "kind": "guess"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"too large", map[string]any{"graph": "A; B; C; D;", "kind": "info"}, http.StatusBadRequest, "INVALID_GRAPH"},
		{"quoted title", map[string]any{"graph": `{"title":"a \"b\"","nodes":[{"id":"A"}]}`, "source": "json", "kind": "info"},
			http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown node", map[string]any{"graph": "A; B;", "kind": "identify", "x": []string{"A"}, "y": []string{"Q"}},
			http.StatusUnprocessableEntity, "UNKNOWN_NODE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/query", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, resp.Header.Get(RequestIDHeader), body.Error.RequestID)
		})
	}
}

func TestRenderDOT(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/render", map[string]any{
		"graph":  frontDoor,
		"format": "dot",
		"x":      []string{"X"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "graphviz")

	var b bytes.Buffer
	_, err := b.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "digraph")
	assert.Contains(t, b.String(), "dir=both")
}

func TestRenderBadFormat(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/render", map[string]any{"graph": frontDoor, "format": "gif"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/v2/nothing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp2.Header.Get(RequestIDHeader))
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	post(t, srv.URL+"/v1/query", map[string]any{"graph": "A; B", "kind": "info"})

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.statuses)
}

func TestListenAndServeShutdown(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(&strings.Builder{}))
	s := New(runner, log.New(&strings.Builder{}), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
