package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/history"
	"github.com/kestrelstack/survfit-engine/internal/telemetry"
)

func newTestServer() *Server {
	return &Server{
		logger:  slog.Default(),
		history: history.NoopStore{},
		latency: telemetry.NewLatencyTracker(32),
	}
}

// fakeHistoryStore records what it was asked for and returns a fixed warm-start record, so tests
// can confirm handleFit actually calls FindSimilar and threads its result into estimate.Fit.
type fakeHistoryStore struct {
	rec       history.Record
	found     bool
	sawFamily distributions.Family
	sawN      int
	recorded  []history.Record
}

func (f *fakeHistoryStore) FindSimilar(_ context.Context, family distributions.Family, n int) (history.Record, bool, error) {
	f.sawFamily = family
	f.sawN = n
	return f.rec, f.found, nil
}

func (f *fakeHistoryStore) Record(_ context.Context, rec history.Record) error {
	f.recorded = append(f.recorded, rec)
	return nil
}

func TestHandleFitSuccess(t *testing.T) {
	s := newTestServer()
	req := FitRequest{
		Family: "exp",
		Observations: []ObservationDTO{
			{Time: 0.5, Status: 1}, {Time: 1.0, Status: 1}, {Time: 1.5, Status: 1}, {Time: 2.0, Status: 0},
		},
		Tau: []float64{1.0},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/v1/fit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleFit(rec, httpReq)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp FitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Family != "exp" {
		t.Fatalf("expected family exp, got %v", resp.Family)
	}
	if !resp.Converged {
		t.Fatalf("expected convergence")
	}
	if resp.RunID == "" {
		t.Fatalf("expected a generated run id")
	}
}

func TestHandleFitValidationError(t *testing.T) {
	s := newTestServer()
	req := FitRequest{Family: "not-a-family", Observations: []ObservationDTO{{Time: 1, Status: 1}}}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/v1/fit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleFit(rec, httpReq)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Kind != string(apperr.UnknownDistribution) {
		t.Fatalf("expected kind %s, got %s", apperr.UnknownDistribution, resp.Kind)
	}
}

func TestHandleFitUsesHistoryWarmStartWhenTheta0Omitted(t *testing.T) {
	fake := &fakeHistoryStore{
		found: true,
		rec:   history.Record{Family: "exp", Theta: []float64{0.7}},
	}
	s := &Server{logger: slog.Default(), history: fake, latency: telemetry.NewLatencyTracker(32)}

	req := FitRequest{
		Family: "exp",
		Observations: []ObservationDTO{
			{Time: 0.5, Status: 1}, {Time: 1.0, Status: 1}, {Time: 1.5, Status: 1}, {Time: 2.0, Status: 0},
		},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/v1/fit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleFit(rec, httpReq)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.sawFamily != "exp" || fake.sawN != 4 {
		t.Fatalf("expected FindSimilar to be called with (exp, 4), got (%s, %d)", fake.sawFamily, fake.sawN)
	}
	if len(fake.recorded) != 1 {
		t.Fatalf("expected the completed fit to be recorded, got %d records", len(fake.recorded))
	}
}

func TestHandleFitIgnoresHistoryWarmStartWhenTheta0Supplied(t *testing.T) {
	fake := &fakeHistoryStore{found: true, rec: history.Record{Family: "exp", Theta: []float64{0.7}}}
	s := &Server{logger: slog.Default(), history: fake, latency: telemetry.NewLatencyTracker(32)}

	req := FitRequest{
		Family: "exp",
		Observations: []ObservationDTO{
			{Time: 0.5, Status: 1}, {Time: 1.0, Status: 1}, {Time: 1.5, Status: 1}, {Time: 2.0, Status: 0},
		},
		Theta0: []float64{1.5},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/v1/fit", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleFit(rec, httpReq)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.sawFamily != "" {
		t.Fatalf("expected FindSimilar not to be called when theta0 is supplied, but it was called with family %s", fake.sawFamily)
	}
}

func TestHandleFitMethodNotAllowed(t *testing.T) {
	s := newTestServer()
	httpReq := httptest.NewRequest("GET", "/v1/fit", nil)
	rec := httptest.NewRecorder()

	s.handleFit(rec, httpReq)

	if rec.Code != 405 {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleFitMalformedBody(t *testing.T) {
	s := newTestServer()
	httpReq := httptest.NewRequest("POST", "/v1/fit", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	s.handleFit(rec, httpReq)

	if rec.Code != 400 {
		t.Fatalf("expected 400 for a malformed body, got %d", rec.Code)
	}
}

func TestHandleContrastSuccess(t *testing.T) {
	s := newTestServer()
	req := ContrastRequest{
		Dist1: "exp",
		Dist0: "exp",
		Observations: []ObservationDTO{
			{Time: 0.5, Status: 1, Arm: 1}, {Time: 1.0, Status: 1, Arm: 1}, {Time: 1.5, Status: 1, Arm: 1},
			{Time: 0.8, Status: 1, Arm: 0}, {Time: 1.2, Status: 1, Arm: 0}, {Time: 2.0, Status: 0, Arm: 0},
		},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/v1/contrast", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleContrast(rec, httpReq)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ContrastResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Records) == 0 {
		t.Fatalf("expected at least one diff/ratio record")
	}
}

func TestHandleContrastPropagatesFitValidationError(t *testing.T) {
	s := newTestServer()
	req := ContrastRequest{
		Dist1:        "exp",
		Dist0:        "exp",
		Observations: []ObservationDTO{{Time: 1, Status: 0, Arm: 1}},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/v1/contrast", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleContrast(rec, httpReq)

	if rec.Code != 400 {
		t.Fatalf("expected 400 for an all-censored arm, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleHealthzReportsSampleCount(t *testing.T) {
	s := newTestServer()
	s.latency.Observe(1)
	s.latency.Observe(2)

	httpReq := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealthz(rec, httpReq)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", resp["status"])
	}
	if count, ok := resp["sampledLatency"].(float64); !ok || count != 2 {
		t.Fatalf("expected sampledLatency 2, got %v", resp["sampledLatency"])
	}
}

func TestKindStatusMapping(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.NonPositiveTime, 400},
		{apperr.BadStatusCode, 400},
		{apperr.BadParameterArity, 400},
		{apperr.UnknownDistribution, 400},
		{apperr.InvalidTau, 400},
		{apperr.InvalidSig, 400},
		{apperr.NoEvents, 400},
		{apperr.QuadratureFailure, 422},
		{apperr.Kind("something-else"), 500},
	}
	for _, c := range cases {
		if got := kindStatus(c.kind); got != c.want {
			t.Fatalf("%s: got %d want %d", c.kind, got, c.want)
		}
	}
}
