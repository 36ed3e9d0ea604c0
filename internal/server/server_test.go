package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/matzehuels/cardgrid/pkg/buildinfo"
	"github.com/matzehuels/cardgrid/pkg/cache"
	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
	"github.com/matzehuels/cardgrid/pkg/observability"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const homeDeck = `{
	"name": "home",
	"cards": [
		{"id": "a", "text": "Alpha"},
		{"id": "b", "size": ["double-width"]},
		{"id": "c"},
		{"id": "d"}
	],
	"width": 300
}`

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults.CellWidth == 0 {
		cfg.Defaults = pipeline.Options{CellWidth: 100, CellHeight: 100}
	}
	logger := quietLogger()
	return New(pipeline.NewRunner(c, nil, logger), logger, cfg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t, Config{}).Handler(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a UUID", w.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	id := uuid.NewString()

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Errorf("valid incoming id replaced: got %q, want %q", got, id)
	}

	r = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.Header.Set(RequestIDHeader, "not-a-uuid\n")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get(RequestIDHeader); got == "not-a-uuid\n" {
		t.Error("invalid incoming id should be replaced")
	}
}

func TestVersion(t *testing.T) {
	w := do(t, newTestServer(t, Config{}).Handler(), http.MethodGet, "/version", "")
	if got := decode[buildinfo.Info](t, w); got != buildinfo.Get() {
		t.Errorf("version = %+v, want %+v", got, buildinfo.Get())
	}
}

func TestLayout(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()

	w := do(t, h, http.MethodPost, "/v1/layout", homeDeck)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	resp := decode[LayoutResponse](t, w)
	if resp.Cached {
		t.Error("first request should not be cached")
	}
	l := resp.Layout
	if l.Columns != 3 || l.Rows != 2 || l.Deck != "home" {
		t.Errorf("layout = %d columns, %d rows, deck %q", l.Columns, l.Rows, l.Deck)
	}
	got := map[string][2]float64{}
	for id, p := range l.Placements {
		got[id] = [2]float64{p.Geometry.Left, p.Geometry.Top}
	}
	want := map[string][2]float64{"a": {0, 0}, "b": {100, 0}, "c": {0, 100}, "d": {100, 100}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	w = do(t, h, http.MethodPost, "/v1/layout", homeDeck)
	if resp := decode[LayoutResponse](t, w); !resp.Cached {
		t.Error("repeated request should be served from cache")
	}
}

func TestLayoutDefaults(t *testing.T) {
	h := newTestServer(t, Config{Defaults: pipeline.Options{CellWidth: 100, CellHeight: 100, Gutter: 10, Direction: "rtl"}}).Handler()

	resp := decode[LayoutResponse](t, do(t, h, http.MethodPost, "/v1/layout", `{"cards":[{"id":"a"}],"width":500}`))
	if resp.Layout.Gutter != 10 || resp.Layout.Direction != "rtl" {
		t.Errorf("defaults not applied: gutter %v, direction %q", resp.Layout.Gutter, resp.Layout.Direction)
	}
	if resp.Layout.Columns != 4 {
		t.Errorf("columns = %d, want 4", resp.Layout.Columns)
	}

	resp = decode[LayoutResponse](t, do(t, h, http.MethodPost, "/v1/layout", `{"cards":[{"id":"a"}],"width":500,"gutter":0,"direction":"ltr"}`))
	if resp.Layout.Gutter != 0 || resp.Layout.Direction != "ltr" {
		t.Errorf("explicit values ignored: gutter %v, direction %q", resp.Layout.Gutter, resp.Layout.Direction)
	}
}

func TestLayoutWidths(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantColumns int
		wantWidth   float64
	}{
		{"omitted uses server default", `{"cards":[{"id":"a"}]}`, 4, pipeline.DefaultWidth},
		{"zero", `{"cards":[{"id":"a"}],"width":0}`, 1, 0},
		{"negative is clamped", `{"cards":[{"id":"a"}],"width":-5}`, 1, 0},
		{"narrower than a cell", `{"cards":[{"id":"a"}],"width":40}`, 1, 40},
	}

	h := newTestServer(t, Config{}).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/layout", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body)
			}
			l := decode[LayoutResponse](t, w).Layout
			if l.Columns != tt.wantColumns || l.ContainerWidth != tt.wantWidth {
				t.Errorf("columns = %d, width = %v; want %d, %v", l.Columns, l.ContainerWidth, tt.wantColumns, tt.wantWidth)
			}
		})
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   apperrors.Code
	}{
		{"malformed json", http.MethodPost, "/v1/layout", `{"cards":`, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/v1/layout", `{"cards":[],"colour":"red"}`, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"empty body", http.MethodPost, "/v1/layout", "", http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"trailing data", http.MethodPost, "/v1/layout", `{"cards":[]} {}`, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"bad max columns", http.MethodPost, "/v1/layout", `{"cards":[],"max_columns":9}`, http.StatusBadRequest, apperrors.ErrCodeInvalidConfig},
		{"bad direction", http.MethodPost, "/v1/layout", `{"cards":[],"direction":"up"}`, http.StatusBadRequest, apperrors.ErrCodeInvalidConfig},
		{"strict duplicate", http.MethodPost, "/v1/layout", `{"cards":[{"id":"x"},{"id":"x"}],"strict":true}`, http.StatusBadRequest, apperrors.ErrCodeInvalidDeck},
		{"unknown route", http.MethodGet, "/v2/layout", "", http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"wrong method", http.MethodGet, "/v1/layout", "", http.StatusMethodNotAllowed, apperrors.ErrCodeUnsupported},
	}

	h := newTestServer(t, Config{}).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body)
			}
			body := decode[ErrorBody](t, w)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.wantCode)
			}
			if body.RequestID == "" || body.RequestID != w.Header().Get(RequestIDHeader) {
				t.Errorf("request id %q does not match header %q", body.RequestID, w.Header().Get(RequestIDHeader))
			}
		})
	}
}

func TestLayoutBodyTooLarge(t *testing.T) {
	h := newTestServer(t, Config{MaxBodyBytes: 32}).Handler()
	w := do(t, h, http.MethodPost, "/v1/layout", homeDeck)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestBreakpoints(t *testing.T) {
	h := newTestServer(t, Config{}).Handler()
	w := do(t, h, http.MethodPost, "/v1/breakpoints", homeDeck)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	resp := decode[BreakpointsResponse](t, w)
	if resp.DeckHash == "" {
		t.Error("deck hash missing")
	}

	type summary struct {
		Columns  int
		MinWidth float64
		Rows     int
	}
	var got []summary
	for _, bp := range resp.Breakpoints {
		got = append(got, summary{bp.Columns, bp.MinWidth, bp.Layout.Rows})
	}
	want := []summary{{1, 100, 4}, {2, 200, 3}, {3, 300, 2}, {4, 400, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("breakpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, Config{RateLimit: 0.001, Burst: 2}).Handler()

	for i := 0; i < 2; i++ {
		if w := do(t, h, http.MethodPost, "/v1/layout", homeDeck); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}

	w := do(t, h, http.MethodPost, "/v1/layout", homeDeck)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if body := decode[ErrorBody](t, w); body.Error.Code != apperrors.ErrCodeRateLimited {
		t.Errorf("code = %s", body.Error.Code)
	}

	// Health checks are not limited.
	if w := do(t, h, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
}

func TestClientLimiterSweepsIdleClients(t *testing.T) {
	l := newClientLimiter(1, 1)
	t0 := time.Now()

	if _, ok := l.allow("a", t0); !ok {
		t.Fatal("first request should pass")
	}
	if _, ok := l.allow("a", t0); ok {
		t.Fatal("second immediate request should be limited")
	}
	if _, ok := l.allow("b", t0.Add(limiterIdleTTL+time.Second)); !ok {
		t.Fatal("other client should pass")
	}
	if n := l.size(); n != 1 {
		t.Errorf("tracked clients = %d, want 1 after sweep", n)
	}
}

func TestServerHooks(t *testing.T) {
	rec := &recordingServerHooks{}
	observability.SetServerHooks(rec)
	defer observability.Reset()

	h := newTestServer(t, Config{}).Handler()
	do(t, h, http.MethodPost, "/v1/layout", homeDeck)
	do(t, h, http.MethodGet, "/nope", "")

	want := []string{"POST /v1/layout 200", "GET /nope 404"}
	if diff := cmp.Diff(want, rec.get()); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/healthz", ln.Addr()))
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	mu        sync.Mutex
	responses []string
}

func (h *recordingServerHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, fmt.Sprintf("%s %s %d", method, route, status))
}

func (h *recordingServerHooks) get() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.responses...)
}
