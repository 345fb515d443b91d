// Package server exposes the review pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ebad66/SafeCommit/internal/config"
	"github.com/ebad66/SafeCommit/internal/review"
)

// DiffReviewer is the capability the server needs from the review layer.
// The concrete implementation is review.Client; tests substitute fakes.
type DiffReviewer interface {
	ReviewDiff(ctx context.Context, diff string, files []string) ([]review.Finding, error)
}

// Server handles review HTTP requests. It holds only immutable
// configuration and stateless collaborators; nothing is shared between
// requests beyond the logger and the review client.
type Server struct {
	cfg    config.Config
	client DiffReviewer
	log    *zap.Logger
	http   *http.Server
}

// ReviewRequest is the wire format accepted by POST /v1/review/diff.
type ReviewRequest struct {
	RepoID string   `json:"repoId"`
	Diff   string   `json:"diff"`
	Files  []string `json:"files"`
}

// ReviewResponse is the wire format returned on success.
type ReviewResponse struct {
	RequestID string           `json:"requestId"`
	Findings  []review.Finding `json:"findings"`
	Summary   review.Summary   `json:"summary"`
}

type errorResponse struct {
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Message   string `json:"message,omitempty"`
}

// New creates a Server.
func New(cfg config.Config, client DiffReviewer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, client: client, log: log}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/review/diff", s.handleReviewDiff)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReviewDiff(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.log.With(zap.String("requestId", requestID))
	start := time.Now()

	// Bound the request body: the diff is truncated to MaxDiffBytes anyway,
	// so anything wildly larger is rejected outright. The slack covers JSON
	// escaping and the rest of the envelope.
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxDiffBytes)*2+64*1024)

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("rejecting malformed body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{
			RequestID: requestID,
			Error:     "Invalid request",
			Details:   err.Error(),
		})
		return
	}
	if detail := validateRequest(req); detail != "" {
		log.Info("rejecting invalid request", zap.String("details", detail))
		writeJSON(w, http.StatusBadRequest, errorResponse{
			RequestID: requestID,
			Error:     "Invalid request",
			Details:   detail,
		})
		return
	}

	diff := review.TruncateBytes(req.Diff, s.cfg.MaxDiffBytes)
	if len(diff) < len(req.Diff) {
		log.Info("diff truncated",
			zap.Int("originalBytes", len(req.Diff)),
			zap.Int("maxBytes", s.cfg.MaxDiffBytes))
	}

	log.Info("review started",
		zap.String("repoId", req.RepoID),
		zap.Int("diffBytes", len(diff)),
		zap.Int("files", len(req.Files)))

	findings, err := s.client.ReviewDiff(r.Context(), diff, req.Files)
	if err != nil {
		log.Error("review pipeline failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{
			RequestID: requestID,
			Error:     upstreamErrorLabel(err),
		})
		return
	}

	summary := review.BuildSummary(findings, time.Since(start).Milliseconds())
	log.Info("review completed",
		zap.Int("findings", summary.TotalFindings),
		zap.Int64("durationMs", summary.DurationMs))

	writeJSON(w, http.StatusOK, ReviewResponse{
		RequestID: requestID,
		Findings:  findings,
		Summary:   summary,
	})
}

// validateRequest returns a human-readable reason the request is invalid,
// or "" when it is well formed.
func validateRequest(req ReviewRequest) string {
	if strings.TrimSpace(req.RepoID) == "" {
		return "repoId is required"
	}
	if req.Diff == "" {
		return "diff is required"
	}
	for i, f := range req.Files {
		if strings.TrimSpace(f) == "" {
			return fmt.Sprintf("files[%d] must be non-empty", i)
		}
	}
	return ""
}

// upstreamErrorLabel maps pipeline failures to the generic categories
// returned to callers. Internal detail stays in the logs.
func upstreamErrorLabel(err error) string {
	switch {
	case errors.Is(err, review.ErrInvalidAfterRepair):
		return "model response failed validation"
	case errors.Is(err, context.DeadlineExceeded):
		return "model call timed out"
	default:
		return "review pipeline error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
