package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

func TestNoopStoreNeverFindsOrFails(t *testing.T) {
	var store Store = NoopStore{}

	_, found, err := store.FindSimilar(context.Background(), distributions.Weibull, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected NoopStore to never report a match")
	}
	if err := store.Record(context.Background(), Record{}); err != nil {
		t.Fatalf("expected Record to be a no-op, got %v", err)
	}
}

func TestHTTPStoreFindSimilarRoundTrip(t *testing.T) {
	want := Record{Family: distributions.Gamma, Theta: []float64{2, 2}, N: 500, EventCount: 400, Converged: true}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/history/similar" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"found": true, "record": want})
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "secret", time.Second, nil, 0)
	got, found, err := store.FindSimilar(context.Background(), distributions.Gamma, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatalf("expected a match")
	}
	if got.N != want.N || got.EventCount != want.EventCount || got.Family != want.Family {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestHTTPStoreFindSimilarNoEndpointIsNotFound(t *testing.T) {
	store := NewHTTPStore("", "", time.Second, nil, 0)
	_, found, err := store.FindSimilar(context.Background(), distributions.Weibull, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected no match with no endpoint configured")
	}
}

func TestHTTPStoreRecordFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("storage unavailable"))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, "", time.Second, nil, 0)
	if err := store.Record(context.Background(), Record{Family: distributions.Weibull}); err == nil {
		t.Fatalf("expected an error from a failing history service")
	}
}

func TestRecordFromFitCapturesErrorKind(t *testing.T) {
	fit := models.FitResult{Family: distributions.Weibull, Converged: false, Iterations: 200}
	fitErr := apperr.New("estimate.Fit", apperr.NoEvents, "observation set has no observed events")

	rec := RecordFromFit(fit, fitErr)
	if rec.ErrorKind != string(apperr.NoEvents) {
		t.Fatalf("expected ErrorKind %q, got %q", apperr.NoEvents, rec.ErrorKind)
	}
	if rec.Converged {
		t.Fatalf("expected Converged to be false")
	}
}
