package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/contrast"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/estimate"
	"github.com/kestrelstack/survfit-engine/internal/history"
	"github.com/kestrelstack/survfit-engine/internal/metrics"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// kindStatus maps an apperr.Kind to the HTTP status the facade reports for it.
func kindStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.NonPositiveTime, apperr.BadStatusCode, apperr.BadParameterArity,
		apperr.UnknownDistribution, apperr.InvalidTau, apperr.InvalidSig, apperr.NoEvents:
		return http.StatusBadRequest
	case apperr.QuadratureFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind, ok := apperr.KindOf(err)
	status := http.StatusInternalServerError
	resp := ErrorResponse{Message: err.Error()}
	if ok {
		status = kindStatus(kind)
		resp.Kind = string(kind)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// handleFit implements POST /v1/fit (§6 "Fitting call").
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.Wrap("httpapi.Fit", apperr.BadParameterArity, "malformed request body", err))
		return
	}

	runID := uuid.NewString()
	opt := estimate.DefaultOptions()
	if req.Eps > 0 {
		opt.Eps = req.Eps
	}
	if req.MaxIt > 0 {
		opt.MaxIt = req.MaxIt
	}

	obsSet := toObservationSet(req.Observations)
	theta0 := req.Theta0
	if len(theta0) == 0 && s.history != nil {
		if rec, found, findErr := s.history.FindSimilar(r.Context(), req.Family, obsSet.N()); findErr != nil {
			s.logger.Warn("history lookup failed", slog.Any("error", findErr))
		} else if found && distributions.CheckArity(req.Family, len(rec.Theta)) == nil {
			theta0 = rec.Theta
		}
	}

	start := time.Now()
	fit, err := estimate.Fit(obsSet, req.Family, models.Theta(theta0), defaultSig(req.Sig), req.Tau, opt, runID)
	duration := time.Since(start)
	s.latency.Observe(duration)
	metrics.ObserveFit(string(req.Family), duration, fit.Converged, fit.SigmaRobust, err)

	if s.history != nil && err == nil {
		rec := history.RecordFromFit(fit, nil)
		if recErr := s.history.Record(r.Context(), rec); recErr != nil {
			s.logger.Warn("history record failed", slog.Any("error", recErr))
		}
	}

	if err != nil {
		s.logger.Warn("fit failed", slog.String("runId", runID), slog.Any("error", err))
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFitResponse(runID, fit))
}

// handleContrast implements POST /v1/contrast (§6 "Contrast call").
func (s *Server) handleContrast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ContrastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.Wrap("httpapi.Contrast", apperr.BadParameterArity, "malformed request body", err))
		return
	}

	runID := uuid.NewString()
	sig := defaultSig(req.Sig)
	opt := estimate.DefaultOptions()

	target, reference := models.Split(toArmObservations(req.Observations))

	start := time.Now()
	targetFit, err := estimate.Fit(target, req.Dist1, nil, sig, req.Tau, opt, runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	referenceFit, err := estimate.Fit(reference, req.Dist0, nil, sig, req.Tau, opt, runID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := contrast.Compute(targetFit, referenceFit, sig, runID)
	duration := time.Since(start)
	s.latency.Observe(duration)
	metrics.ObserveContrast(err)

	if err != nil {
		s.logger.Warn("contrast failed", slog.String("runId", runID), slog.Any("error", err))
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContrastResponse(runID, result))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"sampledLatency": s.latency.Count(),
	})
}
