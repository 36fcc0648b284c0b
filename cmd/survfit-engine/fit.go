package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelstack/survfit-engine/internal/cache"
	"github.com/kestrelstack/survfit-engine/internal/datasource"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/estimate"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

var (
	fitFamily         string
	fitInput          string
	fitOutput         string
	fitTheta0         string
	fitSig            float64
	fitTau            string
	fitEps            float64
	fitMaxIt          int
	fitDatasourceURL  string
	fitDatasourcePath string
	fitDatasetID      string
	fitCacheAddr      string
	fitCacheTTL       time.Duration
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a parametric survival distribution to an observation set",
	RunE:  runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitFamily, "family", "", "distribution family: exp, gamma, gen-gamma, log-normal, weibull")
	fitCmd.Flags().StringVar(&fitInput, "input", "-", "path to a JSON array of {time,status} observations, or - for stdin")
	fitCmd.Flags().StringVar(&fitOutput, "output", "-", "path to write the fit result, or - for stdout")
	fitCmd.Flags().StringVar(&fitTheta0, "theta0", "", "comma-separated initial parameter vector (optional)")
	fitCmd.Flags().Float64Var(&fitSig, "sig", 0.05, "significance level for confidence intervals")
	fitCmd.Flags().StringVar(&fitTau, "tau", "", "comma-separated RMST truncation times (optional)")
	fitCmd.Flags().Float64Var(&fitEps, "eps", 0, "Newton-Raphson convergence tolerance (0 = default)")
	fitCmd.Flags().IntVar(&fitMaxIt, "maxit", 0, "Newton-Raphson iteration cap (0 = default)")
	fitCmd.Flags().StringVar(&fitDatasourceURL, "datasource-url", "", "load observations from a remote datasource instead of --input")
	fitCmd.Flags().StringVar(&fitDatasourcePath, "datasource-path", "/api/v1/observations", "remote datasource observations endpoint path")
	fitCmd.Flags().StringVar(&fitDatasetID, "dataset-id", "", "dataset id to request from the remote datasource")
	fitCmd.Flags().StringVar(&fitCacheAddr, "cache-addr", "", "Valkey/Redis address to cache remote datasource fetches (optional, requires --datasource-url)")
	fitCmd.Flags().DurationVar(&fitCacheTTL, "cache-ttl", 5*time.Minute, "cache entry lifetime for cached datasource fetches")
	_ = fitCmd.MarkFlagRequired("family")
	rootCmd.AddCommand(fitCmd)
}

// observationFetcher is satisfied by both datasource.Client and its read-through-cache decorator,
// datasource.CachedClient, so runFit can wire in caching without a type switch.
type observationFetcher interface {
	FetchObservations(ctx context.Context, datasetID string) (models.ObservationSet, error)
}

func runFit(cmd *cobra.Command, args []string) error {
	var obs []models.Observation
	if fitDatasourceURL != "" {
		client := datasource.NewClient(fitDatasourceURL, fitDatasourcePath, 10*time.Second)
		var fetcher observationFetcher = client
		if fitCacheAddr != "" {
			provider, err := cache.NewValkeyProvider(cache.ValkeyConfig{Addr: fitCacheAddr})
			if err != nil {
				return fmt.Errorf("connect to cache: %w", err)
			}
			defer provider.Close()
			fetcher = datasource.NewCachedClient(client, provider, fitCacheTTL)
		}
		set, err := fetcher.FetchObservations(context.Background(), fitDatasetID)
		if err != nil {
			return fmt.Errorf("fetch observations: %w", err)
		}
		obs = set.Obs
	} else {
		records, err := readObservations(fitInput)
		if err != nil {
			return err
		}
		obs = make([]models.Observation, 0, len(records))
		for _, r := range records {
			obs = append(obs, models.Observation{Time: r.Time, Status: r.Status})
		}
	}

	theta0, err := parseFloats(fitTheta0)
	if err != nil {
		return err
	}
	tau, err := parseFloats(fitTau)
	if err != nil {
		return err
	}

	opt := estimate.DefaultOptions()
	if fitEps > 0 {
		opt.Eps = fitEps
	}
	if fitMaxIt > 0 {
		opt.MaxIt = fitMaxIt
	}

	fit, err := estimate.Fit(models.ObservationSet{Obs: obs}, distributions.Family(fitFamily), models.Theta(theta0), fitSig, tau, opt, "")
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	return writeJSON(fitOutput, fit)
}
