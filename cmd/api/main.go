package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fappie/backend/internal/config"
	"github.com/fappie/backend/internal/handler"
	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/internal/service/ai"
	"github.com/fappie/backend/internal/service/auth"
	"github.com/fappie/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		logger.Fatalf("failed to initialize logger: %v", err)
	}
	if envErr != nil {
		logger.Warnf("failed to load .env file: %v", envErr)
		logger.Info("continuing with system environment variables only")
	}

	if cfg.Auth.Password == "" {
		logger.Warnf("APP_PASSWORD is not set, every login will be rejected")
	}
	gate, err := auth.NewGate(auth.Options{
		Secret:     cfg.Auth.Password,
		SigningKey: cfg.Auth.SessionSecret,
		TTL:        cfg.Auth.SessionTTL,
	})
	if err != nil {
		logger.Fatalf("failed to initialize access gate: %v", err)
	}

	// Initialize AI service
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = newAIService(ctx, cfg.AI)
		if err != nil {
			logger.Warnf("failed to initialize AI service: %v", err)
			logger.Info("continuing without generation, check the AI provider environment variables")
		} else {
			logger.Infof("AI service initialized provider=%s output=%s", cfg.AI.Provider, cfg.AI.Output)
		}
	} else {
		logger.Warnf("credentials for AI provider %s not configured, generation disabled", cfg.AI.Provider)
	}

	router := handler.NewRouter(handler.Options{
		Modes:        mode.NewMemoryStore(mode.Seed()),
		Gate:         gate,
		AI:           aiService,
		SecureCookie: cfg.Auth.SecureCookie,
	})

	startServer(ctx, cfg.Server, router)
}

func newAIService(ctx context.Context, cfg config.AIConfig) (*ai.Service, error) {
	chatModel, err := ai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ai.NewService(ctx, chatModel, cfg.Output)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Infof("Fappie backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
