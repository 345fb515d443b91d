package output

import (
	"fmt"
	"io"
	"os"

	"github.com/ebad66/SafeCommit/internal/review"
)

// Report is what the CLI renders after a review round trip.
type Report struct {
	RequestID string           `json:"requestId"`
	Mode      string           `json:"mode"`
	Repo      string           `json:"repo"`
	Branch    string           `json:"branch,omitempty"`
	Cached    bool             `json:"cached,omitempty"`
	Findings  []review.Finding `json:"findings"`
	Summary   review.Summary   `json:"summary"`
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}
