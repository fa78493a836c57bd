package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/strategy"
	"FundPulse/internal/usecase"
	applogger "FundPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubNavStore struct {
	series models.NavSeries
	err    error
}

func (s *stubNavStore) GetSeries(context.Context, string, time.Time, time.Time) (models.NavSeries, error) {
	return s.series, s.err
}

func (s *stubNavStore) GetLatestN(_ context.Context, _ string, n int) (models.NavSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	if n > len(s.series) {
		n = len(s.series)
	}
	return s.series[len(s.series)-n:], nil
}

func (s *stubNavStore) Health(context.Context) error { return s.err }
func (s *stubNavStore) Close() error                 { return nil }

func navFixture(n int) models.NavSeries {
	out := make(models.NavSeries, n)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	nav := 1.0
	for i := range out {
		if i > 0 {
			nav *= 1.002
		}
		out[i] = models.NavPoint{Date: date, UnitNav: nav, AccumulatedNav: nav}
		date = date.AddDate(0, 0, 1)
	}
	return out
}

func newTestHandler(t *testing.T, store *stubNavStore) (*StrategiesHandler, *echo.Echo) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := usecase.NewSignalService(store, strategy.NewEngine(strategy.NewRegistry()))
	h := NewStrategiesHandler(l, svc, nil)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestApplyEndpoint(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPost, "/api/v1/strategies/apply",
		`{"fund_code":"019915","strategy_id":"MA_CROSS"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %v", body)
	}
	sig, _ := data["signal"].(string)
	if sig != "buy" && sig != "sell" && sig != "hold" {
		t.Fatalf("signal = %q", sig)
	}
	if _, ok := data["confidence"].(float64); !ok {
		t.Fatalf("missing confidence: %v", data)
	}
}

func TestApplyUnknownStrategyIs404(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPost, "/api/v1/strategies/apply",
		`{"fund_code":"019915","strategy_id":"MOMENTUM"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ERR_UNKNOWN_STRATEGY") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestApplyInvalidParameterIs400WithField(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPost, "/api/v1/strategies/apply",
		`{"fund_code":"019915","strategy_id":"MA_CROSS","parameters":{"short_window":30,"long_window":20}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "long_window") {
		t.Fatalf("expected offending field in body: %s", rec.Body.String())
	}
}

func TestApplyShortSeriesIs422(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(10)})

	rec := doJSON(e, http.MethodPost, "/api/v1/strategies/apply",
		`{"fund_code":"019915","strategy_id":"MA_CROSS"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestApplyMissingFundCodeIs400(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPost, "/api/v1/strategies/apply",
		`{"strategy_id":"MA_CROSS"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "fund_code") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestApplyAllEndpoint(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPost, "/api/v1/strategies/apply-all",
		`{"fund_code":"019915"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	signals, ok := data["signals"].(map[string]any)
	if !ok || len(signals) != 3 {
		t.Fatalf("expected 3 signals, got: %v", data["signals"])
	}
}

func TestListStrategies(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodGet, "/api/v1/strategies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	if total, _ := data["total"].(float64); total != 3 {
		t.Fatalf("total = %v", data["total"])
	}
}

func TestDescribeStrategy(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodGet, "/api/v1/strategies/DYNAMIC_DCA", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "valuation_lookback") {
		t.Fatalf("body: %s", rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/strategies/MOMENTUM", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPut, "/api/v1/strategies/MA_CROSS/config",
		`{"parameters":{"short_window":10,"long_window":60}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/strategies/MA_CROSS/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	params := data["parameters"].(map[string]any)
	if params["short_window"].(float64) != 10 || params["long_window"].(float64) != 60 {
		t.Fatalf("params = %v", params)
	}
}

func TestConfigRejectsInvalidOverride(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodPut, "/api/v1/strategies/MA_CROSS/config",
		`{"parameters":{"short_window":30,"long_window":20}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	// defaults unchanged after the rejected override
	rec = doJSON(e, http.MethodGet, "/api/v1/strategies/MA_CROSS/config", "")
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	params := data["parameters"].(map[string]any)
	if params["short_window"].(float64) != 5 || params["long_window"].(float64) != 20 {
		t.Fatalf("params = %v", params)
	}
}

func TestNavHistoryLast(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodGet, "/api/v1/funds/019915/nav?last=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	if total, _ := data["total"].(float64); total != 5 {
		t.Fatalf("total = %v, want 5", data["total"])
	}
	rows := data["rows"].([]any)
	// Trailing rows come back oldest first; the fixture ends 2024-03-21.
	lastRow := rows[len(rows)-1].(map[string]any)
	if lastRow["date"] != "2024-03-21" {
		t.Fatalf("last date = %v", lastRow["date"])
	}
}

func TestNavHistoryLastRejectsNegative(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodGet, "/api/v1/funds/019915/nav?last=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	_, e := newTestHandler(t, &stubNavStore{series: navFixture(80)})

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
