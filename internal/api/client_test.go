package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleSnapshot = `{
	"total_pnl": 50, "total_trades": 2, "win_rate": 50, "profit_factor": 2,
	"avg_trade_pnl": 25, "winning_trades": 1, "losing_trades": 1,
	"max_profit": 100, "max_loss": -50, "avg_win": 100, "avg_loss": -50,
	"trades_by_type": {"PE": {"count": 1, "win_rate": 0, "pnl": -50}, "CE": {"count": 1, "win_rate": 100, "pnl": 100}},
	"trades": [
		{"entry_time": "2025-01-15T09:30:00", "option_type": "CE", "strike": 22500, "entry_price": 100, "exit_price": 101.33, "qty": 75, "pnl": 100, "exit_reason": "TARGET"},
		{"entry_time": "2025-01-15T10:30:00", "option_type": "PE", "strike": 22400, "entry_price": 80, "exit_price": 79.33, "qty": 75, "pnl": -50, "exit_reason": "STOPLOSS"}
	]
}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAnalytics(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleSnapshot)

	snap, err := NewClient(srv.URL+"/", "test", time.Second).FetchAnalytics(context.Background())
	if err != nil {
		t.Fatalf("FetchAnalytics: %v", err)
	}
	if snap.TotalPnL != 50 || len(snap.Trades) != 2 {
		t.Fatalf("snapshot=%+v", snap)
	}
	if snap.TradesByType[0].Label != "PE" {
		t.Fatalf("trades_by_type order lost: %+v", snap.TradesByType)
	}
}

func TestFetchAnalyticsEmptyTrades(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"total_pnl": 0, "total_trades": 0}`)

	snap, err := NewClient(srv.URL, "", time.Second).FetchAnalytics(context.Background())
	if err != nil {
		t.Fatalf("FetchAnalytics: %v", err)
	}
	if snap.Trades == nil || len(snap.Trades) != 0 {
		t.Fatalf("trades=%v want empty non-nil", snap.Trades)
	}
}

func TestFetchAnalyticsFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   ErrKind
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"analytics unavailable"}`, ProtocolFailure},
		{"not found", http.StatusNotFound, ``, ProtocolFailure},
		{"not json", http.StatusOK, `<html>oops</html>`, MalformedPayload},
		{"null body", http.StatusOK, `null`, MalformedPayload},
		{"wrong shape", http.StatusOK, `{"trades": {"a": 1}}`, MalformedPayload},
		{"bad field type", http.StatusOK, `{"total_pnl": "lots"}`, MalformedPayload},
	}

	for _, tt := range tests {
		srv := serve(t, tt.status, tt.body)
		_, err := NewClient(srv.URL, "", time.Second).FetchAnalytics(context.Background())

		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("%s: err=%v want *FetchError", tt.name, err)
		}
		if fe.Kind != tt.kind {
			t.Fatalf("%s: kind=%s want=%s", tt.name, fe.Kind, tt.kind)
		}
		if tt.kind == ProtocolFailure && fe.Status != tt.status {
			t.Fatalf("%s: status=%d want=%d", tt.name, fe.Status, tt.status)
		}
	}
}

func TestFetchAnalyticsProtocolMessage(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, `{"detail":"upstream down"}`)
	_, err := NewClient(srv.URL, "", time.Second).FetchAnalytics(context.Background())
	if err == nil || err.Error() != "protocol failure (HTTP 502): upstream down" {
		t.Fatalf("err=%v", err)
	}
}

func TestFetchAnalyticsNetworkFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleSnapshot)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", time.Second).FetchAnalytics(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != NetworkFailure {
		t.Fatalf("err=%v want network failure", err)
	}
}

func TestFetchAnalyticsRelativeBase(t *testing.T) {
	_, err := NewClient("", "", time.Second).FetchAnalytics(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != NetworkFailure {
		t.Fatalf("err=%v want network failure for a relative request", err)
	}
}

func TestFetchAnalyticsContextCancelled(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleSnapshot)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, "", time.Second).FetchAnalytics(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled in chain", err)
	}
}
