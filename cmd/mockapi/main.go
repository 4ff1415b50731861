package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gobarber/gobarber-client/config"
	"github.com/gobarber/gobarber-client/internal/mockserver"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/profiling"
	"github.com/gobarber/gobarber-client/pkg/storage"
	"github.com/gobarber/gobarber-client/pkg/tracing"
	"go.uber.org/zap"
)

const serviceName = "gobarber-mockapi"

type seedUser struct {
	name     string
	email    string
	password string
	provider bool
}

var seedUsers = []seedUser{
	{name: "John Doe", email: "johndoe@example.com", password: "123456"},
	{name: "Barbara Barber", email: "barbara@example.com", password: "123456", provider: true},
	{name: "Carlos Cutter", email: "carlos@example.com", password: "123456", provider: true},
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.App.Env,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting GoBarber mock API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.App.Env),
	)

	tracerShutdown, err := tracing.InitTracer(
		serviceName,
		cfg.Observability.ServiceVersion,
		cfg.App.Env,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, serviceName, cfg.Observability.ServiceVersion, cfg.App.Env)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	publicURL := cfg.MockAPI.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:" + cfg.MockAPI.Port
	}

	opts := []mockserver.Option{
		mockserver.WithServiceName(serviceName),
		mockserver.WithAllowedOrigins(cfg.MockAPI.AllowedOrigins...),
	}
	if cfg.MockAPI.AvatarStorage == "s3" {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.MockAPI.S3.Endpoint,
			Region:          cfg.MockAPI.S3.Region,
			Bucket:          cfg.MockAPI.S3.Bucket,
			AccessKeyID:     cfg.MockAPI.S3.AccessKeyID,
			SecretAccessKey: cfg.MockAPI.S3.SecretAccessKey,
			PublicURL:       cfg.MockAPI.S3.PublicURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize S3 client", zap.Error(err))
		}
		opts = append(opts, mockserver.WithObjectStore(s3Client))
		logger.Info("Avatars stored in S3", zap.String("bucket", cfg.MockAPI.S3.Bucket))
	}

	server := mockserver.New(cfg.MockAPI.JWTSecret, publicURL, opts...)

	if err := seed(server, cfg.Session.File); err != nil {
		logger.Fatal("Failed to seed users", zap.Error(err))
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.MockAPI.Port,
		Handler:           server.Router(ctx),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.MockAPI.Port), zap.String("public_url", publicURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// seed creates the demo accounts and signs the client in as the first one
// by writing its session file
func seed(server *mockserver.Server, sessionFile string) error {
	var customer session.Session

	for i, u := range seedUsers {
		user, token, err := server.AddUser(u.name, u.email, u.password, u.provider)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", u.email, err)
		}
		logger.Info("Seeded user",
			zap.String("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Bool("provider", u.provider))

		if i == 0 {
			customer = session.Session{User: user, Token: token}
		}
	}

	if err := session.SaveFile(sessionFile, customer); err != nil {
		return err
	}
	logger.Info("Client session written", zap.String("file", sessionFile))
	return nil
}
