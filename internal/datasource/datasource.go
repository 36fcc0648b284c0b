// Package datasource loads observation sets from a remote HTTP service, adapted from the
// teacher's internal/repo/mirador_core.go client (same baseURL/path/httpClient shape, same
// postJSON helper) but fetching a single observation-set payload instead of metrics/logs/traces.
// This is strictly an optional convenience for callers who keep their data in an external store;
// internal/estimate never imports this package (§10.6).
package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/kestrelstack/survfit-engine/internal/models"
)

// Client fetches observation sets identified by a dataset id from a remote datasource service.
type Client struct {
	baseURL          string
	observationsPath string
	httpClient       *http.Client
}

// NewClient constructs a Client targeting the configured datasource instance.
func NewClient(baseURL, observationsPath string, timeout time.Duration) *Client {
	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		observationsPath: observationsPath,
		httpClient:       &http.Client{Timeout: timeout},
	}
}

// FetchObservations retrieves the observation set named by datasetID.
func (c *Client) FetchObservations(ctx context.Context, datasetID string) (models.ObservationSet, error) {
	if c == nil {
		return models.ObservationSet{}, fmt.Errorf("datasource client not initialised")
	}
	if c.baseURL == "" {
		return models.ObservationSet{}, fmt.Errorf("datasource base URL not configured")
	}

	payload := map[string]string{"dataset_id": datasetID}
	var response struct {
		Observations []struct {
			Time   float64 `json:"time"`
			Status int     `json:"status"`
		} `json:"observations"`
	}

	if err := c.postJSON(ctx, c.resolvePath(c.observationsPath), payload, &response); err != nil {
		return models.ObservationSet{}, fmt.Errorf("datasource observations request failed: %w", err)
	}

	obs := make([]models.Observation, 0, len(response.Observations))
	for _, o := range response.Observations {
		obs = append(obs, models.Observation{Time: o.Time, Status: o.Status})
	}
	if len(obs) == 0 {
		return models.ObservationSet{}, fmt.Errorf("datasource %q returned no observations", datasetID)
	}
	return models.ObservationSet{Obs: obs}, nil
}

func (c *Client) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("datasource returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
