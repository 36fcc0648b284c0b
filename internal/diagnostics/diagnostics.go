// Package diagnostics aggregates a batch of history.Record values by family to surface
// operational health, the same group-by-key aggregation shape as the teacher's
// internal/patterns/miner.go (service-keyed aggregate maps, top-N sort, read-only over its
// store), repurposed from mining failure patterns out of correlations to mining convergence and
// covariance-fallback health out of fit history (§10.7). It is read-only over history.Store and
// never influences a fit's result.
package diagnostics

import (
	"log/slog"
	"sort"
	"time"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/history"
)

// FamilyHealth summarizes fit outcomes for one distribution family over a batch of records.
type FamilyHealth struct {
	Family         distributions.Family
	Fits           int
	Converged      int
	RobustFallback int
	ErrorCounts    map[string]int
	MeanIterations float64
	MeanEventCount float64
	LastFittedAt   time.Time
}

// ConvergenceRate returns the fraction of fits that converged, or 0 if Fits is 0.
func (h FamilyHealth) ConvergenceRate() float64 {
	if h.Fits == 0 {
		return 0
	}
	return float64(h.Converged) / float64(h.Fits)
}

// RobustFallbackRate returns the fraction of fits recorded with SigmaRobust set (a covariance
// that fell back to the pseudo-inverse sandwich estimator, or a fit that did not converge), or 0
// if Fits is 0.
func (h FamilyHealth) RobustFallbackRate() float64 {
	if h.Fits == 0 {
		return 0
	}
	return float64(h.RobustFallback) / float64(h.Fits)
}

// MostCommonError returns the most frequently recorded error kind and its count, or ("", 0) when
// no record in the batch carried an error.
func (h FamilyHealth) MostCommonError() (string, int) {
	best, bestCount := "", 0
	kinds := make([]string, 0, len(h.ErrorCounts))
	for k := range h.ErrorCounts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		if h.ErrorCounts[k] > bestCount {
			best, bestCount = k, h.ErrorCounts[k]
		}
	}
	return best, bestCount
}

// Report is the aggregated health snapshot over a batch of fit-history records.
type Report struct {
	TotalFits int
	Families  []FamilyHealth
}

// Aggregator mines health reports from fit history.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator constructs an Aggregator; a nil logger falls back to slog.Default.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups records by family and computes per-family health statistics, sorted by
// descending fit count so the busiest families surface first.
func (a *Aggregator) Aggregate(records []history.Record) Report {
	if len(records) == 0 {
		return Report{}
	}

	stats := make(map[distributions.Family]*FamilyHealth)
	for _, rec := range records {
		agg, ok := stats[rec.Family]
		if !ok {
			agg = &FamilyHealth{Family: rec.Family, ErrorCounts: make(map[string]int)}
			stats[rec.Family] = agg
		}
		agg.Fits++
		if rec.Converged {
			agg.Converged++
		}
		if rec.SigmaRobust {
			agg.RobustFallback++
		}
		if rec.ErrorKind != "" {
			agg.ErrorCounts[rec.ErrorKind]++
		}
		agg.MeanIterations += float64(rec.Iterations)
		agg.MeanEventCount += float64(rec.EventCount)
		if rec.FittedAt.After(agg.LastFittedAt) {
			agg.LastFittedAt = rec.FittedAt
		}
	}

	families := make([]FamilyHealth, 0, len(stats))
	for _, agg := range stats {
		if agg.Fits > 0 {
			agg.MeanIterations /= float64(agg.Fits)
			agg.MeanEventCount /= float64(agg.Fits)
		}
		families = append(families, *agg)
	}
	sort.Slice(families, func(i, j int) bool {
		if families[i].Fits != families[j].Fits {
			return families[i].Fits > families[j].Fits
		}
		return families[i].Family < families[j].Family
	})

	if a.logger != nil {
		for _, f := range families {
			if f.ConvergenceRate() < 1 {
				a.logger.Warn("family has non-converged fits in history",
					slog.String("family", string(f.Family)),
					slog.Float64("convergence_rate", f.ConvergenceRate()),
				)
			}
		}
	}

	return Report{TotalFits: len(records), Families: families}
}
