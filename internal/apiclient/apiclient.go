// Package apiclient is the HTTP client for the safecommit review backend,
// used by the CLI and the pre-commit hook.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ebad66/SafeCommit/internal/review"
	"github.com/ebad66/SafeCommit/internal/server"
)

// Client talks to a running safecommit backend.
type Client struct {
	baseURL string
	httpCli *http.Client
}

// New creates a backend client. The timeout covers a full review round
// trip, which includes up to two model calls on the server side.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCli: &http.Client{Timeout: timeout},
	}
}

// ReviewDiff posts a diff for review and returns the backend's response.
func (c *Client) ReviewDiff(ctx context.Context, repoID, diff string, files []string) (*server.ReviewResponse, error) {
	payload, err := json.Marshal(server.ReviewRequest{
		RepoID: repoID,
		Diff:   diff,
		Files:  files,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/v1/review/diff"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting review request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Details != "" {
				return nil, fmt.Errorf("backend error (status %d): %s: %s", resp.StatusCode, apiErr.Error, apiErr.Details)
			}
			return nil, fmt.Errorf("backend error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("backend error (status %d): %s", resp.StatusCode, string(body))
	}

	var out server.ReviewResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &out, nil
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// DecodeCached rebuilds a ReviewResponse from cached JSON.
func DecodeCached(data string) (*server.ReviewResponse, error) {
	var out server.ReviewResponse
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("parsing cached response: %w", err)
	}
	if out.Findings == nil {
		out.Findings = []review.Finding{}
	}
	return &out, nil
}

// EncodeCached serializes a ReviewResponse for the cache.
func EncodeCached(resp *server.ReviewResponse) (string, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshaling response for cache: %w", err)
	}
	return string(data), nil
}
