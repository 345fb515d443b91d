package review

import (
	"strings"
)

const systemPrompt = `You are a strict, expert code reviewer. Your job is to review a staged git diff and produce structured findings in JSON format.

Rules:
1. Only review the changes shown in the diff. Do not comment on unchanged code.
2. Focus on bugs, security issues, performance problems, and correctness. Be conservative with nitpicks: only raise a "nit" when it genuinely helps the author.
3. Be concise and actionable. Every finding must explain what is wrong and why it matters.
4. Reference line numbers from the diff hunks. lineEnd must be greater than or equal to lineStart.
5. Rate severity as exactly one of "nit", "suggestion", "warning", or "critical".
6. The summary counts must match the findings you report.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

The object must have this exact structure:
{
  "findings": [
    {
      "file": "relative/file/path",
      "lineStart": 1,
      "lineEnd": 1,
      "severity": "nit|suggestion|warning|critical",
      "title": "Short descriptive title",
      "message": "What is wrong and why it matters",
      "rationale": "Why this is a problem in this change",
      "patch": "optional replacement code"
    }
  ],
  "summary": {
    "totalFindings": 1,
    "bySeverity": {"nit": 0, "suggestion": 0, "warning": 1, "critical": 0},
    "durationMs": 0
  }
}

If there are no issues, respond with: {"findings": [], "summary": {"totalFindings": 0, "bySeverity": {"nit": 0, "suggestion": 0, "warning": 0, "critical": 0}, "durationMs": 0}}`

// SystemPrompt returns the fixed system instruction for the model.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt constructs the per-request user message from the diff and
// the changed file list. The diff is embedded verbatim; it is opaque text as
// far as prompt assembly is concerned.
func BuildUserPrompt(diff string, files []string) string {
	var b strings.Builder

	b.WriteString("Review the following staged diff and report findings per the output contract.\n\n")

	if len(files) > 0 {
		b.WriteString("Changed files:\n")
		for _, f := range files {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(diff)
	b.WriteString("\n--- END DIFF ---\n")

	return b.String()
}

// BuildRepairPrompt constructs the follow-up message sent after a response
// failed to parse or validate. The invalid output is embedded verbatim so
// the model can correct its own formatting.
func BuildRepairPrompt(badOutput string) string {
	var b strings.Builder
	b.WriteString("Your previous response was not a valid review JSON object.\n")
	b.WriteString("Respond again with ONLY valid JSON matching the required structure. No markdown, no commentary.\n\n")
	b.WriteString("Your previous response was:\n")
	b.WriteString(badOutput)
	return b.String()
}
