// Package history provides an optional warm-start lookup over previously fitted parameter
// vectors, adapted from the teacher's internal/repo/weaviate_repo.go (endpoint/apiKey/http
// client/cache.Provider shape, Bearer auth, read-through TTL cache), except that a lookup with no
// endpoint configured reports not found instead of returning synthetic data. A Store never changes a fit's deterministic numerical result — it only
// supplies a better initial theta to internal/estimate, which is free to ignore it (§10.5); the
// core package never imports this one.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/cache"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// Record is a previously completed fit, recorded for future warm starts and health diagnostics.
type Record struct {
	Family      distributions.Family `json:"family"`
	Theta       []float64            `json:"theta"`
	N           int                  `json:"n"`
	EventCount  int                  `json:"eventCount"`
	Converged   bool                 `json:"converged"`
	Iterations  int                  `json:"iterations"`
	SigmaRobust bool                 `json:"sigmaRobust"`
	ErrorKind   string               `json:"errorKind,omitempty"`
	FittedAt    time.Time            `json:"fittedAt"`
}

// RecordFromFit maps a completed fit into a history Record. fitErr is the error returned by
// estimate.Fit, if any, and is reduced to its apperr.Kind for storage; it is nil on success.
func RecordFromFit(fit models.FitResult, fitErr error) Record {
	rec := Record{
		Family:      fit.Family,
		Theta:       []float64(fit.ThetaHat.Clone()),
		N:           fit.N,
		EventCount:  fit.EventCount,
		Converged:   fit.Converged,
		Iterations:  fit.Iterations,
		SigmaRobust: fit.SigmaRobust,
		FittedAt:    fit.FittedAt,
	}
	if kind, ok := apperr.KindOf(fitErr); ok {
		rec.ErrorKind = string(kind)
	}
	return rec
}

// Store looks up and records fit history.
type Store interface {
	FindSimilar(ctx context.Context, family distributions.Family, n int) (Record, bool, error)
	Record(ctx context.Context, rec Record) error
}

// NoopStore implements Store without persisting anything, the default when history is disabled.
type NoopStore struct{}

func (NoopStore) FindSimilar(context.Context, distributions.Family, int) (Record, bool, error) {
	return Record{}, false, nil
}

func (NoopStore) Record(context.Context, Record) error { return nil }

// HTTPStore looks up and records history against a remote service.
type HTTPStore struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	cache      cache.Provider
	ttl        time.Duration
}

// NewHTTPStore constructs an HTTPStore targeting the configured history service.
func NewHTTPStore(endpoint, apiKey string, timeout time.Duration, cacheProvider cache.Provider, ttl time.Duration) *HTTPStore {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if ttl < 0 {
		ttl = 0
	}
	return &HTTPStore{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cacheProvider,
		ttl:        ttl,
	}
}

// FindSimilar returns the most recent fit recorded for family with a comparable sample size, if
// any. With no endpoint configured it reports "not found" rather than failing, so warm starts are
// a pure optimization callers can always skip.
func (s *HTTPStore) FindSimilar(ctx context.Context, family distributions.Family, n int) (Record, bool, error) {
	if s == nil || s.endpoint == "" {
		return Record{}, false, nil
	}

	cacheKey := fmt.Sprintf("history:similar:%s:%d", family, n)
	if s.ttl > 0 {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached Record
			if json.Unmarshal(data, &cached) == nil {
				return cached, true, nil
			}
		}
	}

	payload, err := json.Marshal(map[string]any{"family": family, "n": n})
	if err != nil {
		return Record{}, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/history/similar", bytes.NewReader(payload))
	if err != nil {
		return Record{}, false, err
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Record{}, false, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Record{}, false, nil
	}

	var response struct {
		Found  bool   `json:"found"`
		Record Record `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Record{}, false, nil
	}
	if !response.Found {
		return Record{}, false, nil
	}

	if s.ttl > 0 {
		if body, err := json.Marshal(response.Record); err == nil {
			_ = s.cache.Set(ctx, cacheKey, body, s.ttl)
		}
	}
	return response.Record, true, nil
}

// Record persists a completed fit for future warm starts. A missing endpoint makes this a no-op.
func (s *HTTPStore) Record(ctx context.Context, rec Record) error {
	if s == nil || s.endpoint == "" {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/history/record", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("record history failed: %s", strings.TrimSpace(string(data)))
	}
	return nil
}

func (s *HTTPStore) authorize(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}
