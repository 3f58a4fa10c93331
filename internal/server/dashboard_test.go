package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jefrnc/optionsdash/internal/api"
	"github.com/jefrnc/optionsdash/internal/dashboard"
	"github.com/jefrnc/optionsdash/internal/lifecycle"
	"github.com/jefrnc/optionsdash/internal/models"
)

type stubFetcher struct {
	snap *models.AnalyticsSnapshot
	err  error
}

func (f stubFetcher) FetchAnalytics(context.Context) (*models.AnalyticsSnapshot, error) {
	return f.snap, f.err
}

func fp(v float64) *float64 { return &v }

func snapshot() *models.AnalyticsSnapshot {
	return &models.AnalyticsSnapshot{
		TotalPnL:    50,
		TotalTrades: 2,
		Trades: []models.TradeRecord{
			{EntryTime: "2025-01-15T04:00:00Z", OptionType: models.Call, Strike: 22500, EntryPrice: 100, Qty: 75, PnL: fp(100), ExitReason: "TARGET"},
			{EntryTime: "2025-01-15T05:00:00Z", OptionType: models.Put, Strike: 22400, EntryPrice: 80, Qty: 75, PnL: fp(-50), ExitReason: "STOPLOSS"},
		},
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T, f lifecycle.Fetcher, run bool) (*gin.Engine, *DashboardHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lc := lifecycle.New(f, nil)
	vm := dashboard.New(lc, nil, nil)
	if run {
		lc.Run(context.Background())
	}

	h := &DashboardHandler{VM: vm}
	r := gin.New()
	h.Register(r)
	return r, h
}

func do(t *testing.T, r http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decoding %s %s: %v\n%s", method, target, err, w.Body.String())
		}
	}
	return w, env
}

func decodeView(t *testing.T, raw json.RawMessage) dashboard.View {
	t.Helper()
	var v dashboard.View
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	r, _ := setup(t, stubFetcher{snap: snapshot()}, true)
	w, _ := do(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestOverviewByState(t *testing.T) {
	tests := []struct {
		name    string
		fetcher lifecycle.Fetcher
		run     bool
		status  int
		message string
	}{
		{"ready", stubFetcher{snap: snapshot()}, true, http.StatusOK, "ok"},
		{"loading", stubFetcher{snap: snapshot()}, false, http.StatusServiceUnavailable, "analytics loading"},
		{
			"failed",
			stubFetcher{err: &api.FetchError{Kind: api.NetworkFailure, Err: errors.New("connection refused")}},
			true,
			http.StatusBadGateway,
			"network failure: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setup(t, tt.fetcher, tt.run)
			w, env := do(t, r, http.MethodGet, "/api/dashboard/overview", nil)
			if w.Code != tt.status {
				t.Fatalf("status=%d want %d", w.Code, tt.status)
			}
			if env.Message != tt.message {
				t.Fatalf("message=%q want %q", env.Message, tt.message)
			}
		})
	}
}

func TestTradesQueryDoesNotChangeStoredFilters(t *testing.T) {
	r, h := setup(t, stubFetcher{snap: snapshot()}, true)

	w, env := do(t, r, http.MethodGet, "/api/dashboard/trades?option_type=PE", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	v := decodeView(t, env.Data)
	if v.Shown != 1 || v.Total != 2 || v.Rows[0].OptionType != "PE" {
		t.Fatalf("view=%+v", v)
	}

	if p := h.VM.Predicates(); p.OptionType != "all" {
		t.Fatalf("stored filters changed: %+v", p)
	}

	_, env = do(t, r, http.MethodGet, "/api/dashboard/trades", nil)
	if v := decodeView(t, env.Data); v.Shown != 2 {
		t.Fatalf("unfiltered shown=%d", v.Shown)
	}
}

func TestFilterRoutes(t *testing.T) {
	r, h := setup(t, stubFetcher{snap: snapshot()}, true)

	w, env := do(t, r, http.MethodPut, "/api/dashboard/filters", []byte(`{"optionType":"CE","minPnL":"500"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status=%d", w.Code)
	}
	v := decodeView(t, env.Data)
	if v.Shown != 0 || v.Empty != dashboard.NoMatches {
		t.Fatalf("PUT view=%+v", v)
	}

	w, env = do(t, r, http.MethodPatch, "/api/dashboard/filters", []byte(`{"field":"minPnL","value":""}`))
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH status=%d", w.Code)
	}
	if v := decodeView(t, env.Data); v.Shown != 1 {
		t.Fatalf("PATCH shown=%d want 1", v.Shown)
	}

	w, _ = do(t, r, http.MethodPatch, "/api/dashboard/filters", []byte(`{"field":"colour","value":"red"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d", w.Code)
	}

	w, _ = do(t, r, http.MethodDelete, "/api/dashboard/filters", nil)
	if w.Code != http.StatusOK || h.VM.Predicates().OptionType != "all" {
		t.Fatalf("DELETE status=%d predicates=%+v", w.Code, h.VM.Predicates())
	}
}

func TestExitReasons(t *testing.T) {
	r, _ := setup(t, stubFetcher{snap: snapshot()}, true)
	_, env := do(t, r, http.MethodGet, "/api/dashboard/exit-reasons", nil)

	var reasons []string
	if err := json.Unmarshal(env.Data, &reasons); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(reasons) != 2 || reasons[0] != "TARGET" || reasons[1] != "STOPLOSS" {
		t.Fatalf("reasons=%v", reasons)
	}
}

func TestRefresh(t *testing.T) {
	r, h := setup(t, stubFetcher{err: errors.New("down")}, true)

	w, _ := do(t, r, http.MethodPost, "/api/dashboard/refresh", nil)
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status without factory=%d", w.Code)
	}

	var next *lifecycle.Lifecycle
	h.NewLifecycle = func() *lifecycle.Lifecycle {
		next = lifecycle.New(stubFetcher{snap: snapshot()}, nil)
		return next
	}

	w, _ = do(t, r, http.MethodPost, "/api/dashboard/refresh", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("refresh status=%d", w.Code)
	}

	select {
	case <-next.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("refresh fetch did not finish")
	}

	w, env := do(t, r, http.MethodGet, "/api/dashboard/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d", w.Code)
	}
	var st struct {
		State  string `json:"state"`
		Trades int    `json:"trades"`
	}
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if st.State != "ready" || st.Trades != 2 {
		t.Fatalf("state=%+v", st)
	}
}

func TestPatchAcceptsEveryFilterKey(t *testing.T) {
	r, _ := setup(t, stubFetcher{snap: snapshot()}, true)

	w, env := do(t, r, http.MethodGet, "/api/dashboard/filters", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status=%d", w.Code)
	}
	var keys map[string]any
	if err := json.Unmarshal(env.Data, &keys); err != nil {
		t.Fatalf("decoding filters: %v", err)
	}
	if len(keys) != 5 {
		t.Fatalf("filter keys=%v want 5", keys)
	}

	for key := range keys {
		body, _ := json.Marshal(map[string]string{"field": key, "value": "1"})
		w, env := do(t, r, http.MethodPatch, "/api/dashboard/filters", body)
		if w.Code != http.StatusOK {
			t.Fatalf("PATCH %s status=%d message=%q", key, w.Code, env.Message)
		}
	}
}
