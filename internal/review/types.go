package review

// Severity represents the importance of a finding.
type Severity string

const (
	SeverityNit        Severity = "nit"
	SeveritySuggestion Severity = "suggestion"
	SeverityWarning    Severity = "warning"
	SeverityCritical   Severity = "critical"
)

// Severities lists the canonical severities in ascending order.
var Severities = []Severity{SeverityNit, SeveritySuggestion, SeverityWarning, SeverityCritical}

// SeverityRank returns a numeric rank for ordering (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityWarning:
		return 3
	case SeveritySuggestion:
		return 2
	case SeverityNit:
		return 1
	default:
		return 0
	}
}

// ValidSeverity reports whether s is one of the four canonical severities.
func ValidSeverity(s Severity) bool {
	return SeverityRank(s) > 0
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Finding represents a single reviewer-reported issue tied to a file and
// line range. Findings are created only by validating a model response.
type Finding struct {
	File      string   `json:"file"`
	LineStart int      `json:"lineStart"`
	LineEnd   int      `json:"lineEnd"`
	Severity  Severity `json:"severity"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Rationale string   `json:"rationale"`
	Patch     string   `json:"patch,omitempty"`
}

// Summary provides severity counts over a finding list.
type Summary struct {
	TotalFindings int            `json:"totalFindings"`
	BySeverity    map[string]int `json:"bySeverity"`
	DurationMs    int64          `json:"durationMs"`
}

// BuildSummary derives a Summary from findings and an elapsed duration in
// milliseconds. All four canonical severities are always present in
// BySeverity, defaulting to 0; a non-canonical severity (which validation
// rules out) would be counted under its literal key. The summary is always
// recomputed here rather than trusted from the model, so
// TotalFindings == len(findings) holds by construction.
func BuildSummary(findings []Finding, durationMs int64) Summary {
	by := make(map[string]int, len(Severities))
	for _, s := range Severities {
		by[string(s)] = 0
	}
	for _, f := range findings {
		by[string(f.Severity)]++
	}
	return Summary{
		TotalFindings: len(findings),
		BySeverity:    by,
		DurationMs:    durationMs,
	}
}

// HighestSeverity returns the most severe severity present in findings,
// or the empty Severity when there are none.
func HighestSeverity(findings []Finding) Severity {
	var top Severity
	for _, f := range findings {
		if SeverityRank(f.Severity) > SeverityRank(top) {
			top = f.Severity
		}
	}
	return top
}
