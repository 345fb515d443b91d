package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// modelResponse is the JSON structure the model is instructed to return.
// The summary is decoded so its counts can be shape-checked, but it is
// never used beyond validation; callers rebuild it from the findings.
type modelResponse struct {
	Findings []modelFinding `json:"findings"`
	Summary  *modelSummary  `json:"summary"`
}

type modelFinding struct {
	File      string `json:"file"`
	LineStart int    `json:"lineStart"`
	LineEnd   int    `json:"lineEnd"`
	Severity  string `json:"severity"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Rationale string `json:"rationale"`
	Patch     string `json:"patch"`
}

type modelSummary struct {
	TotalFindings int            `json:"totalFindings"`
	BySeverity    map[string]int `json:"bySeverity"`
	DurationMs    int64          `json:"durationMs"`
}

// ValidationError describes why a model response was rejected, carrying the
// path of the offending field.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

func invalid(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// ParseResponse parses raw model output as strict JSON and validates it
// against the finding and summary shapes. Parse failures and schema
// failures both come back as errors; the two are deliberately not
// distinguished because either triggers the same single repair pass.
func ParseResponse(raw string) ([]Finding, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, invalid("", "empty response")
	}

	dec := json.NewDecoder(strings.NewReader(content))
	var resp modelResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	// Reject trailing garbage after the object.
	if dec.More() {
		return nil, invalid("", "trailing data after JSON object")
	}

	if resp.Findings == nil {
		return nil, invalid("findings", "missing or not an array")
	}

	findings := make([]Finding, 0, len(resp.Findings))
	for i, mf := range resp.Findings {
		f, err := validateFinding(i, mf)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	if resp.Summary != nil {
		if err := validateSummary(resp.Summary); err != nil {
			return nil, err
		}
	}

	return findings, nil
}

func validateFinding(i int, mf modelFinding) (Finding, error) {
	path := func(field string) string { return fmt.Sprintf("findings[%d].%s", i, field) }

	if strings.TrimSpace(mf.File) == "" {
		return Finding{}, invalid(path("file"), "must be a non-empty path")
	}
	if mf.LineStart < 1 {
		return Finding{}, invalid(path("lineStart"), "must be an integer >= 1, got %d", mf.LineStart)
	}
	if mf.LineEnd < 1 {
		return Finding{}, invalid(path("lineEnd"), "must be an integer >= 1, got %d", mf.LineEnd)
	}
	if mf.LineEnd < mf.LineStart {
		return Finding{}, invalid(path("lineEnd"), "must be >= lineStart (%d < %d)", mf.LineEnd, mf.LineStart)
	}
	if !ValidSeverity(Severity(mf.Severity)) {
		return Finding{}, invalid(path("severity"), "must be one of nit, suggestion, warning, critical; got %q", mf.Severity)
	}
	if strings.TrimSpace(mf.Title) == "" {
		return Finding{}, invalid(path("title"), "must be non-empty")
	}
	if strings.TrimSpace(mf.Message) == "" {
		return Finding{}, invalid(path("message"), "must be non-empty")
	}
	if strings.TrimSpace(mf.Rationale) == "" {
		return Finding{}, invalid(path("rationale"), "must be non-empty")
	}

	return Finding{
		File:      mf.File,
		LineStart: mf.LineStart,
		LineEnd:   mf.LineEnd,
		Severity:  Severity(mf.Severity),
		Title:     mf.Title,
		Message:   mf.Message,
		Rationale: mf.Rationale,
		Patch:     mf.Patch,
	}, nil
}

// validateSummary shape-checks the model's own summary. Only negativity is
// rejected; the counts themselves are discarded in favor of a recomputed
// summary, so internal inconsistency is tolerated here.
func validateSummary(ms *modelSummary) error {
	if ms.TotalFindings < 0 {
		return invalid("summary.totalFindings", "must be non-negative, got %d", ms.TotalFindings)
	}
	if ms.DurationMs < 0 {
		return invalid("summary.durationMs", "must be non-negative, got %d", ms.DurationMs)
	}
	for key, n := range ms.BySeverity {
		if n < 0 {
			return invalid("summary.bySeverity."+key, "must be non-negative, got %d", n)
		}
	}
	return nil
}
