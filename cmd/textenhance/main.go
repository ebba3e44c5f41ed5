package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/textenhance/internal/adapter/driven/deepseek"
	sqliteadapter "github.com/ericfisherdev/textenhance/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/textenhance/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/textenhance/internal/adapter/driving/web"
	"github.com/ericfisherdev/textenhance/internal/adapter/driving/ws"
	"github.com/ericfisherdev/textenhance/internal/application"
	"github.com/ericfisherdev/textenhance/internal/config"
	"github.com/ericfisherdev/textenhance/internal/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	slog.SetDefault(log)

	log.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"api_base_url", cfg.APIBaseURL,
		"request_timeout", cfg.RequestTimeout,
		"rate_limit_per_min", cfg.RateLimitPerMin,
		"secret_key_set", cfg.HasSecretKey(),
	)
	if !cfg.HasSecretKey() {
		log.Warn("TEXTENHANCE_SECRET_KEY not set, api key storage disabled")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database opened", "path", db.Path())

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	log.Info("migrations complete")

	// 5. Wire driven adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)

	client := deepseek.NewClient(
		deepseek.WithBaseURL(cfg.APIBaseURL),
		deepseek.WithTimeout(cfg.RequestTimeout),
		deepseek.WithLogger(log),
	)
	enhancer := deepseek.NewBreakerEnhancer(client, cfg.BreakerMaxFailures, log)

	hub := ws.NewHub(log)

	// 6. Create application services and start the coordinator loop.
	credentials := application.NewCredentialService(credentialStore, log)
	coordinator := application.NewCoordinator(credentials, enhancer, hub, hub, log)
	go coordinator.Run(ctx)
	coordinator.CheckCredential(ctx)

	// 7. Register routes: JSON API, WebSocket hub, web GUI.
	mux := http.NewServeMux()

	limiter := httphandler.NewRateLimiter(ctx, cfg.RateLimitPerMin)
	apiHandler := httphandler.NewHandler(coordinator, credentials, hub, enhancer, limiter, log)
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	ws.NewHandler(hub, coordinator, nil, log).RegisterRoutes(mux)

	webHandler := webhandler.NewHandler(coordinator, credentials, log)
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, log)

	// Enhance may span several attempts of RequestTimeout each plus retry waits.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      time.Duration(deepseek.MaxAttempts+1) * cfg.RequestTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			stop()
		}
	}()

	log.Info("textenhance started",
		"listen_addr", cfg.ListenAddr,
		"menu_item", application.EnhanceMenuTitle,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	log.Info("shutting down")

	// 9. Graceful shutdown. Hijacked WebSocket connections are closed by the hub.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}
