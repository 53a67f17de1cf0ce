// Package registry is an HTTP client for the MLflow-style model tracking
// server the loader and the diagnostic CLIs talk to.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const apiPrefix = "/api/2.0/mlflow"

// Error is a decoded tracking-server error payload.
type Error struct {
	StatusCode int
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("registry: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Client talks to the model tracking server REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a registry client for the given tracking URI.
func NewClient(trackingURI string) (*Client, error) {
	if strings.TrimSpace(trackingURI) == "" {
		return nil, fmt.Errorf("MLFLOW_TRACKING_URI is required")
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("REGISTRY_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		baseURL: strings.TrimRight(trackingURI, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type latestVersionsRequest struct {
	Name   string   `json:"name"`
	Stages []string `json:"stages,omitempty"`
}

type latestVersionsResponse struct {
	ModelVersions []ModelVersion `json:"model_versions"`
}

// GetLatestVersions returns the latest versions of a registered model across
// the given stages (all stages when empty).
func (c *Client) GetLatestVersions(ctx context.Context, name string, stages []string) ([]ModelVersion, error) {
	var out latestVersionsResponse
	err := c.post(ctx, apiPrefix+"/registered-models/get-latest-versions", latestVersionsRequest{
		Name:   name,
		Stages: stages,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.ModelVersions, nil
}

type searchModelsResponse struct {
	RegisteredModels []RegisteredModel `json:"registered_models"`
}

// SearchRegisteredModels lists registered models, up to maxResults.
func (c *Client) SearchRegisteredModels(ctx context.Context, maxResults int) ([]RegisteredModel, error) {
	if maxResults <= 0 {
		maxResults = 100
	}
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(maxResults))
	var out searchModelsResponse
	if err := c.get(ctx, apiPrefix+"/registered-models/search", q, &out); err != nil {
		return nil, err
	}
	return out.RegisteredModels, nil
}

type searchExperimentsRequest struct {
	MaxResults int `json:"max_results"`
}

type searchExperimentsResponse struct {
	Experiments []Experiment `json:"experiments"`
}

// SearchExperiments lists experiments, up to maxResults.
func (c *Client) SearchExperiments(ctx context.Context, maxResults int) ([]Experiment, error) {
	if maxResults <= 0 {
		maxResults = 100
	}
	var out searchExperimentsResponse
	if err := c.post(ctx, apiPrefix+"/experiments/search", searchExperimentsRequest{MaxResults: maxResults}, &out); err != nil {
		return nil, err
	}
	return out.Experiments, nil
}

type searchRunsRequest struct {
	ExperimentIDs []string `json:"experiment_ids"`
	Filter        string   `json:"filter,omitempty"`
	MaxResults    int      `json:"max_results"`
	OrderBy       []string `json:"order_by,omitempty"`
}

type searchRunsResponse struct {
	Runs []Run `json:"runs"`
}

// SearchRuns returns runs of the given experiments newest-first, optionally
// restricted to runs started after the given time.
func (c *Client) SearchRuns(ctx context.Context, experimentIDs []string, since time.Time, maxResults int) ([]Run, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	req := searchRunsRequest{
		ExperimentIDs: experimentIDs,
		MaxResults:    maxResults,
		OrderBy:       []string{"attributes.start_time DESC"},
	}
	if !since.IsZero() {
		req.Filter = fmt.Sprintf("attributes.start_time > %d", since.UnixMilli())
	}
	var out searchRunsResponse
	if err := c.post(ctx, apiPrefix+"/runs/search", req, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

type listArtifactsResponse struct {
	RootURI string     `json:"root_uri"`
	Files   []FileInfo `json:"files"`
}

// ListArtifacts lists the artifact entries of a run under the given path.
func (c *Client) ListArtifacts(ctx context.Context, runID, path string) ([]FileInfo, error) {
	q := url.Values{}
	q.Set("run_id", runID)
	if path != "" {
		q.Set("path", path)
	}
	var out listArtifactsResponse
	if err := c.get(ctx, apiPrefix+"/artifacts/list", q, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// DownloadArtifact fetches raw artifact bytes for a run.
func (c *Client) DownloadArtifact(ctx context.Context, runID, path string) ([]byte, error) {
	q := url.Values{}
	q.Set("run_id", runID)
	q.Set("path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-artifact?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

// Ping verifies tracking-server connectivity with a cheap experiment search.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.SearchExperiments(ctx, 1)
	return err
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	regErr := &Error{StatusCode: status}
	if err := json.Unmarshal(body, regErr); err != nil || regErr.Message == "" {
		regErr.Code = "UNKNOWN"
		regErr.Message = strings.TrimSpace(string(body))
		if regErr.Message == "" {
			regErr.Message = http.StatusText(status)
		}
	}
	return regErr
}
