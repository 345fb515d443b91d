package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ebad66/SafeCommit/internal/review"
)

func sampleReport() *Report {
	findings := []review.Finding{
		{File: "b.go", LineStart: 10, LineEnd: 12, Severity: review.SeverityNit, Title: "nit title", Message: "nit message", Rationale: "nit why"},
		{File: "a.go", LineStart: 3, LineEnd: 3, Severity: review.SeverityCritical, Title: "crit title", Message: "crit message", Rationale: "crit why", Patch: "fixed()"},
	}
	return &Report{
		RequestID: "req-42",
		Mode:      "staged",
		Repo:      "demo",
		Branch:    "main",
		Findings:  findings,
		Summary:   review.BuildSummary(findings, 120),
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q): %v", format, err)
		}
	}
	if _, err := GetWriter("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"staged mode", "demo", "branch: main",
		"Findings: 2 total",
		"[!!] CRITICAL", "[-] NIT",
		"a.go:3-3", "crit title",
		"Suggested patch:", "fixed()",
		"120ms", "req-42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\n%s", want, out)
		}
	}

	// Critical group renders before nit.
	if strings.Index(out, "CRITICAL") > strings.Index(out, "NIT") {
		t.Error("severity groups must render in descending order")
	}
}

func TestTextWriter_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{Mode: "staged", Repo: "demo", Summary: review.BuildSummary(nil, 5)}
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found") {
		t.Errorf("empty report should say no issues:\n%s", buf.String())
	}
}

func TestTextWriter_CachedBanner(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	report.Cached = true
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "served from local cache") {
		t.Error("cached reports should be labeled")
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.RequestID != "req-42" || len(got.Findings) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Summary.TotalFindings != 2 {
		t.Errorf("summary lost: %+v", got.Summary)
	}
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# SafeCommit Review (staged)",
		"| Severity | File | Lines | Title |",
		"| critical | a.go | 3-3 | crit title |",
		"## crit title",
		"```\nfixed()\n```",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_EscapesPipes(t *testing.T) {
	findings := []review.Finding{
		{File: "a.go", LineStart: 1, LineEnd: 1, Severity: review.SeverityWarning, Title: "a | b", Message: "m", Rationale: "r"},
	}
	report := &Report{Mode: "staged", Repo: "demo", Findings: findings, Summary: review.BuildSummary(findings, 1)}

	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `a \| b`) {
		t.Error("pipes in titles must be escaped in the table")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven eight nine ten", 20)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line exceeds width: %q", l)
		}
	}
	if got := wrapText("short", 20); len(got) != 1 || got[0] != "short" {
		t.Errorf("short text should be unchanged: %v", got)
	}
}
