package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gobarber/gobarber-client/config"
	"github.com/gobarber/gobarber-client/internal/api"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/gobarber/gobarber-client/pkg/httpclient"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/tracing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once the root pre-run has finished
type app struct {
	cfg   *config.Config
	store *session.MemoryStore
	api   *api.Client

	shutdownTracer func(context.Context) error
}

var current *app

var rootCmd = &cobra.Command{
	Use:          "gobarber",
	Short:        "GoBarber profile client",
	SilenceUsage: true,
	Long: `gobarber edits the signed-in user's profile against the GoBarber API.

The session (user record and token) is read from SESSION_FILE and written
back whenever an update succeeds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := current.shutdownTracer(ctx); err != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(err))
		}
		logger.Sync()
	},
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.App.Env,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	shutdownTracer, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.App.Env,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	initial, err := session.LoadFile(cfg.Session.File)
	if err != nil {
		return nil, err
	}

	store := session.NewMemoryStore(initial)
	sessionFile := cfg.Session.File
	store.Subscribe(func(s session.Session) {
		if err := session.SaveFile(sessionFile, s); err != nil {
			logger.Error("Failed to persist session", zap.Error(err), zap.String("file", sessionFile))
		}
	})

	httpClient := httpclient.NewRateLimitedClient(
		httpclient.NewStandardClient(cfg.HTTPTimeout()),
		cfg.API.RateLimitRPS,
		cfg.API.RateLimitBurst,
	)

	logger.Debug("Client initialized",
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("session_file", sessionFile),
		zap.Bool("signed_in", !initial.IsZero()))

	return &app{
		cfg:            cfg,
		store:          store,
		api:            api.NewClient(cfg.API.BaseURL, httpClient),
		shutdownTracer: shutdownTracer,
	}, nil
}

// Execute runs the root command and exits non-zero on failure.
// SIGINT and SIGTERM cancel the command context, which declines an open image prompt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func main() {
	Execute()
}
