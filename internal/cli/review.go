package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ebad66/SafeCommit/internal/apiclient"
	"github.com/ebad66/SafeCommit/internal/cache"
	"github.com/ebad66/SafeCommit/internal/config"
	"github.com/ebad66/SafeCommit/internal/gitctx"
	"github.com/ebad66/SafeCommit/internal/output"
	"github.com/ebad66/SafeCommit/internal/redact"
	"github.com/ebad66/SafeCommit/internal/review"
	"github.com/ebad66/SafeCommit/internal/server"
)

// Shared review flags
var (
	flagPaths        string
	flagExclude      string
	flagContextLines int
	flagMaxDiffBytes int
	flagServerURL    string
	flagFormat       string
	flagOut          string
	flagFailOn       string
	flagTimeoutMs    int
	flagNoRedact     bool
	flagNoCache      bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Include file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diff")
	cmd.Flags().IntVar(&flagMaxDiffBytes, "max-diff-bytes", 0, "Maximum diff size in bytes")
	cmd.Flags().StringVar(&flagServerURL, "server", "", "Review backend URL")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, nit, suggestion, warning, critical)")
	cmd.Flags().IntVar(&flagTimeoutMs, "timeout-ms", 0, "Per-call model timeout in milliseconds")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the local response cache")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagServerURL != "" {
		m["serverUrl"] = flagServerURL
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagMaxDiffBytes > 0 {
		m["maxDiffBytes"] = fmt.Sprintf("%d", flagMaxDiffBytes)
	}
	if flagTimeoutMs > 0 {
		m["timeoutMs"] = fmt.Sprintf("%d", flagTimeoutMs)
	}
	return m
}

func buildDiffOpts(cfg config.Config) gitctx.DiffOptions {
	opts := gitctx.DiffOptions{
		ContextLines: flagContextLines,
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
	}
	if flagPaths != "" {
		opts.Include = splitComma(flagPaths)
	}
	if flagExclude != "" {
		opts.Exclude = append(opts.Exclude, splitComma(flagExclude)...)
	}
	return opts
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review local changes through the backend",
}

var reviewStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes (index vs HEAD)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		diff, err := gitctx.Staged(buildDiffOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(cmd.Context(), diff, cfg)
		return nil
	},
}

var reviewUnstagedCmd = &cobra.Command{
	Use:   "unstaged",
	Short: "Review unstaged changes (working tree vs index)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		diff, err := gitctx.Unstaged(buildDiffOpts(cfg))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(cmd.Context(), diff, cfg)
		return nil
	},
}

func runReview(ctx context.Context, diff gitctx.DiffResult, cfg config.Config) {
	if strings.TrimSpace(diff.Diff) == "" {
		fmt.Fprintln(os.Stdout, "Nothing to review.")
		return
	}

	text := diff.Diff
	if cfg.Privacy.RedactSecrets && !flagNoRedact {
		text = redact.Secrets(text)
	} else if flagNoRedact {
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	// The backend truncates too; trimming here keeps oversized diffs off
	// the wire entirely.
	text = review.TruncateBytes(text, cfg.MaxDiffBytes)

	repoID := gitctx.RepoID()

	store, err := cache.New(cfg.Cache.Enabled && !flagNoCache, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache disabled: %v\n", err)
		store, _ = cache.New(false, "", 0)
	}
	key := cache.BuildKey(cfg.ServerURL, repoID, text)

	var resp *server.ReviewResponse
	cached := false
	if data, ok := store.Get(key); ok {
		if decoded, err := apiclient.DecodeCached(data); err == nil {
			resp = decoded
			cached = true
		}
	}

	if resp == nil {
		// The round-trip budget covers the initial call plus one repair
		// call on the server side, with headroom for transport.
		timeout := 2*time.Duration(cfg.TimeoutMs)*time.Millisecond + 10*time.Second
		client := apiclient.New(cfg.ServerURL, timeout)

		resp, err = client.ReviewDiff(ctx, repoID, text, diff.Files)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		if data, err := apiclient.EncodeCached(resp); err == nil {
			_ = store.Put(key, data)
		}
	}

	report := &output.Report{
		RequestID: resp.RequestID,
		Mode:      diff.Mode,
		Repo:      repoID,
		Branch:    diff.Repo.Branch,
		Cached:    cached,
		Findings:  resp.Findings,
		Summary:   resp.Summary,
	}
	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	// Check fail-on threshold
	if cfg.FailOn != "none" && cfg.FailOn != "" {
		for _, f := range resp.Findings {
			if review.MeetsThreshold(f.Severity, cfg.FailOn) {
				exitCode = ExitFindings
				return
			}
		}
	}
}

func init() {
	reviewCmd.AddCommand(reviewStagedCmd)
	reviewCmd.AddCommand(reviewUnstagedCmd)
	for _, cmd := range []*cobra.Command{reviewStagedCmd, reviewUnstagedCmd} {
		addReviewFlags(cmd)
	}
}
