package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/present"
)

// HTTPClient implements DataSource by calling the mapty REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the session lives on a remote server (reached over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do sends a request and returns the status and body. Non-2xx statuses are
// mapped to ErrNotFound, ErrMapNotReady and models.ErrInvalidInput where the
// server means them.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return out, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, ErrMapNotReady
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, errorMessage(out))
	}
	return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, out)
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}

func workoutPath(id string) string {
	return "/api/v1/workouts/" + url.PathEscape(id)
}

func (c *HTTPClient) Workouts(ctx context.Context) ([]models.Record, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/workouts", nil)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) Workout(ctx context.Context, id string) (models.Record, error) {
	body, err := c.do(ctx, http.MethodGet, workoutPath(id), nil)
	if err != nil {
		return models.Record{}, err
	}

	var rec models.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return models.Record{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return rec, nil
}

func (c *HTTPClient) Create(ctx context.Context, at models.Coords, form models.Form) (models.Record, error) {
	in := map[string]any{
		"type":      form.Type,
		"lat":       at.Lat,
		"lng":       at.Lng,
		"distance":  form.Distance,
		"duration":  form.Duration,
		"cadence":   form.Cadence,
		"elevation": form.Elevation,
	}
	body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", in)
	if err != nil {
		return models.Record{}, err
	}

	var rec models.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return models.Record{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return rec, nil
}

// Delete checks the workout exists first; the server treats deleting an
// absent id as a silent no-op.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodGet, workoutPath(id), nil); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodDelete, workoutPath(id), nil)
	return err
}

func (c *HTTPClient) Select(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, workoutPath(id)+"/select", nil)
	return err
}

func (c *HTTPClient) List(ctx context.Context) ([]present.Entry, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/list", nil)
	if err != nil {
		return nil, err
	}

	var entries []present.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode list: %w", err)
	}
	return entries, nil
}
