package output

import (
	"io"
	"strings"

	"github.com/ebad66/SafeCommit/internal/review"
)

// MarkdownWriter outputs the report as a markdown document, suitable for PR
// comments or editor panels.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("# SafeCommit Review (%s)\n\n", report.Mode)
	ew.printf("**Repository:** %s  \n", report.Repo)
	ew.printf("**Findings:** %d  \n", report.Summary.TotalFindings)
	ew.printf("**Duration:** %dms  \n\n", report.Summary.DurationMs)

	if report.Summary.TotalFindings == 0 {
		ew.println("No issues found.")
		return ew.err
	}

	ew.println("| Severity | File | Lines | Title |")
	ew.println("|---|---|---|---|")
	for i := len(review.Severities) - 1; i >= 0; i-- {
		for _, f := range report.Findings {
			if f.Severity != review.Severities[i] {
				continue
			}
			ew.printf("| %s | %s | %d-%d | %s |\n",
				f.Severity, f.File, f.LineStart, f.LineEnd, escapePipes(f.Title))
		}
	}

	ew.println("")
	for _, f := range report.Findings {
		ew.printf("## %s — `%s:%d`\n\n", escapePipes(f.Title), f.File, f.LineStart)
		ew.printf("**Severity:** %s\n\n", f.Severity)
		ew.printf("%s\n\n", f.Message)
		if f.Rationale != "" {
			ew.printf("_%s_\n\n", f.Rationale)
		}
		if f.Patch != "" {
			ew.printf("```\n%s\n```\n\n", f.Patch)
		}
	}

	return ew.err
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
