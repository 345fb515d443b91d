package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ebad66/SafeCommit/internal/config"
	"github.com/ebad66/SafeCommit/internal/logging"
	"github.com/ebad66/SafeCommit/internal/providers"
	"github.com/ebad66/SafeCommit/internal/review"
	"github.com/ebad66/SafeCommit/internal/server"
)

var (
	flagServePort    int
	flagServeLogFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review backend",
	Long:  "Start the HTTP backend that accepts staged diffs, forwards them to the configured model, and returns validated findings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := buildOverrides()
		if flagServePort > 0 {
			overrides["port"] = fmt.Sprintf("%d", flagServePort)
		}
		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}
		if flagServeLogFile != "" {
			cfg.LogFile = flagServeLogFile
		}

		log := logging.New(logging.Options{Debug: cfg.Debug, File: cfg.LogFile})
		defer log.Sync()

		// Provider construction reads the API key from the environment; a
		// missing key is fatal here, before the server ever binds a port.
		provider, err := providers.New(cfg.Provider, cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		client := review.NewClient(provider, review.Options{
			CallTimeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
			Debug:       cfg.Debug,
		}, log.Named("review"))

		srv := server.New(cfg, client, log.Named("http"))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("starting safecommit backend",
			zap.String("provider", provider.Name()),
			zap.String("model", cfg.Model),
			zap.Int("port", cfg.Port),
			zap.Int("maxDiffBytes", cfg.MaxDiffBytes),
			zap.Int("timeoutMs", cfg.TimeoutMs))

		if err := srv.Run(ctx); err != nil {
			log.Error("server exited", zap.Error(err))
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&flagServePort, "port", 0, "Listen port")
	serveCmd.Flags().StringVar(&flagServeLogFile, "log-file", "", "Rotating log file path")
}
