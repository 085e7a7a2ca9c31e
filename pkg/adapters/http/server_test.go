package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/stagepath/internal/runtime"
	"github.com/aretw0/stagepath/pkg/adapters/memory"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const opportunityJSON = `{
  "values": [
    {"label": "New", "value": "new"},
    {"label": "Active", "value": "active", "valid_for": [0]},
    {"label": "Closed", "value": "closed", "valid_for": [1]}
  ],
  "navigation_rule": "closed=!{new}"
}`

// readOnlyLoader hides the Save/Delete methods of the wrapped store.
type readOnlyLoader struct {
	inner *memory.Store
}

func (l readOnlyLoader) Load(ctx context.Context, name string) (domain.Definition, error) {
	return l.inner.Load(ctx, name)
}

func (l readOnlyLoader) List(ctx context.Context) ([]string, error) {
	return l.inner.List(ctx)
}

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	return NewHandler(runtime.NewEngine(), memory.NewStore(), opts...)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_PutGetDelete(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPut, "/paths/opportunity", opportunityJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var graph struct {
		Name      string           `json:"name"`
		Adjacency map[string][]int `json:"adjacency"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graph))
	assert.Equal(t, "opportunity", graph.Name)
	assert.Equal(t, []int{1, 2}, graph.Adjacency["2"])

	w = do(t, h, http.MethodGet, "/paths/opportunity", "")
	require.Equal(t, http.StatusOK, w.Code)
	var def domain.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &def))
	assert.Equal(t, "closed=!{new}", def.NavigationRule)
	assert.Len(t, def.Values, 3)

	w = do(t, h, http.MethodGet, "/paths", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["opportunity"]`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/paths/opportunity", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/paths/opportunity", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_PutRejectsInvalid(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{name: "Malformed JSON", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "No Values", body: `{"values": []}`, wantStatus: http.StatusBadRequest},
		{
			name:       "Unknown Rule Value",
			body:       `{"values": [{"value": "a"}], "navigation_rule": "a={b}"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "unknown_value",
		},
		{
			name:       "Rule Syntax",
			body:       `{"values": [{"value": "a"}], "navigation_rule": "a={a} junk"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "rule_syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, "/paths/p", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.wantKind, resp.Kind)
		})
	}

	w := do(t, h, http.MethodGet, "/paths", "")
	assert.JSONEq(t, `[]`, w.Body.String(), "nothing is stored after rejected writes")
}

func TestServer_Check(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/paths/opportunity", opportunityJSON).Code)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantBlocked bool
		wantReason  string
	}{
		{"Allowed", `{"current": "new", "selected": "active"}`, http.StatusOK, false, domain.ReasonAllowed},
		{"Not Allowed", `{"current": "new", "selected": "closed"}`, http.StatusOK, true, domain.ReasonNotAllowed},
		{"Same Stage", `{"current": "active", "selected": "active"}`, http.StatusOK, true, domain.ReasonSameStage},
		{"Empty Current Is First Stage", `{"current": "", "selected": "active"}`, http.StatusOK, false, domain.ReasonAllowed},
		{"Unknown Stage", `{"current": "new", "selected": "ghost"}`, http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/paths/opportunity/check", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp CheckResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBlocked, resp.Blocked)
			assert.Equal(t, tt.wantReason, resp.Reason)
			if !resp.Blocked {
				assert.Equal(t, resp.To.Label+" Completed", resp.Message)
			}
		})
	}

	w := do(t, h, http.MethodPost, "/paths/missing/check", `{"current": "a", "selected": "b"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_GraphMermaid(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/paths/opportunity", opportunityJSON).Code)

	w := do(t, h, http.MethodGet, "/paths/opportunity/graph?format=mermaid&current=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "graph LR")
	assert.Contains(t, w.Body.String(), "class s1 current;")

	w = do(t, h, http.MethodGet, "/paths/opportunity/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rule":"closed=!{new}"`)
}

func TestServer_ReadOnlyLoader(t *testing.T) {
	store, err := memory.NewFromDefinitions(domain.Definition{
		Name:   "fixed",
		Values: []domain.PicklistValue{{Value: "a"}, {Value: "b"}},
	})
	require.NoError(t, err)
	h := NewHandler(runtime.NewEngine(), readOnlyLoader{inner: store})

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPut, "/paths/fixed", opportunityJSON).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodDelete, "/paths/fixed", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/paths/fixed/graph", "").Code)

	w := do(t, h, http.MethodGet, "/info", "")
	assert.Contains(t, w.Body.String(), `"writable":false`)
}

func TestServer_MetricsAndCORS(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(metrics.Hooks()))
	h := NewHandler(engine, memory.NewStore(),
		WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		WithVersion("v0.0.1-test"),
	)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/paths/opportunity", opportunityJSON).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/paths/opportunity/check", `{"current": "new", "selected": "closed"}`).Code)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stagepath_checks_total{outcome="blocked",reason="not_allowed"} 1`)
	assert.Contains(t, w.Body.String(), `stagepath_compilations_total{result="ok"} 2`)

	w = do(t, h, http.MethodOptions, "/paths/opportunity", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodGet, "/info", "")
	assert.Contains(t, w.Body.String(), "v0.0.1-test")

	w = do(t, h, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
