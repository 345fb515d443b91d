package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebad66/SafeCommit/internal/review"
	"github.com/ebad66/SafeCommit/internal/server"
)

func TestReviewDiff_RoundTrip(t *testing.T) {
	var gotReq server.ReviewRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/review/diff", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(server.ReviewResponse{
			RequestID: "req-1",
			Findings: []review.Finding{
				{File: "a.go", LineStart: 1, LineEnd: 2, Severity: review.SeverityCritical, Title: "t", Message: "m", Rationale: "r"},
			},
			Summary: review.BuildSummary([]review.Finding{{Severity: review.SeverityCritical}}, 7),
		})
	}))
	defer ts.Close()

	c := New(ts.URL, 5*time.Second)
	resp, err := c.ReviewDiff(context.Background(), "demo", "+x", []string{"a.go"})
	require.NoError(t, err)

	assert.Equal(t, "demo", gotReq.RepoID)
	assert.Equal(t, "+x", gotReq.Diff)
	assert.Equal(t, []string{"a.go"}, gotReq.Files)

	assert.Equal(t, "req-1", resp.RequestID)
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, review.SeverityCritical, resp.Findings[0].Severity)
	assert.Equal(t, 1, resp.Summary.TotalFindings)
}

func TestReviewDiff_BackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"requestId": "req-2",
			"error":     "Invalid request",
			"details":   "diff is required",
		})
	}))
	defer ts.Close()

	c := New(ts.URL, 5*time.Second)
	_, err := c.ReviewDiff(context.Background(), "demo", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Invalid request")
	assert.Contains(t, err.Error(), "diff is required")
}

func TestReviewDiff_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer ts.Close()

	c := New(ts.URL, 5*time.Second)
	_, err := c.ReviewDiff(context.Background(), "demo", "+x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(ts.URL, time.Second)
	assert.NoError(t, c.Health(context.Background()))

	down := New("http://127.0.0.1:1", time.Second)
	assert.Error(t, down.Health(context.Background()))
}

func TestCachedRoundTrip(t *testing.T) {
	orig := &server.ReviewResponse{
		RequestID: "req-3",
		Findings:  []review.Finding{{File: "x", LineStart: 1, LineEnd: 1, Severity: review.SeverityNit, Title: "t", Message: "m", Rationale: "r"}},
		Summary:   review.BuildSummary([]review.Finding{{Severity: review.SeverityNit}}, 3),
	}

	data, err := EncodeCached(orig)
	require.NoError(t, err)

	got, err := DecodeCached(data)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestDecodeCached_NilFindings(t *testing.T) {
	got, err := DecodeCached(`{"requestId":"r","summary":{"totalFindings":0,"bySeverity":{},"durationMs":0}}`)
	require.NoError(t, err)
	assert.NotNil(t, got.Findings)
	assert.Empty(t, got.Findings)
}

func TestDecodeCached_Invalid(t *testing.T) {
	_, err := DecodeCached("not json")
	assert.Error(t, err)
}
