package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ebad66/SafeCommit/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("SafeCommit Review — %s mode\n", report.Mode)
	ew.printf("Repository: %s", report.Repo)
	if report.Branch != "" {
		ew.printf(" (branch: %s)", report.Branch)
	}
	ew.println("")
	if report.Cached {
		ew.println("(served from local cache)")
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", report.Summary.TotalFindings)
	if report.Summary.TotalFindings > 0 {
		ew.printf(" (%d critical, %d warning, %d suggestion, %d nit)",
			report.Summary.BySeverity[string(review.SeverityCritical)],
			report.Summary.BySeverity[string(review.SeverityWarning)],
			report.Summary.BySeverity[string(review.SeveritySuggestion)],
			report.Summary.BySeverity[string(review.SeverityNit)],
		)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if report.Summary.TotalFindings == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	// Group by severity (critical first), then by file
	grouped := groupBySeverity(report.Findings)
	for i := len(review.Severities) - 1; i >= 0; i-- {
		sev := review.Severities[i]
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		sort.Slice(findings, func(i, j int) bool {
			if findings[i].File != findings[j].File {
				return findings[i].File < findings[j].File
			}
			return findings[i].LineStart < findings[j].LineStart
		})

		for _, f := range findings {
			ew.printf("\n  %s:%d-%d  %s\n", f.File, f.LineStart, f.LineEnd, f.Title)
			for _, line := range wrapText(f.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if f.Rationale != "" {
				ew.println("  Why:")
				for _, line := range wrapText(f.Rationale, 70) {
					ew.printf("    %s\n", line)
				}
			}
			if f.Patch != "" {
				ew.println("  Suggested patch:")
				for _, line := range strings.Split(f.Patch, "\n") {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (request %s)\n", report.Summary.DurationMs, report.RequestID)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func groupBySeverity(findings []review.Finding) map[review.Severity][]review.Finding {
	m := make(map[review.Severity][]review.Finding)
	for _, f := range findings {
		m[f.Severity] = append(m[f.Severity], f)
	}
	return m
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!]"
	case review.SeverityWarning:
		return "[!]"
	case review.SeveritySuggestion:
		return "[~]"
	case review.SeverityNit:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
