package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cms/internal/auth"
	"cms/internal/config"
	"cms/internal/handler"
	"cms/internal/middleware"
	"cms/internal/service"
	serviceDocsys "cms/internal/service/docsystem"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"data_dir", cfg.DataDir,
		"credentials_backend", cfg.CredentialsBackend,
	)

	if cfg.Environment == "prod" && cfg.SessionSecret == config.DefaultSessionSecret {
		log.Fatalf("SESSION_SECRET must be set in production")
	}

	ctx := context.Background()
	svcs, cleanup, err := service.SetupServices(ctx, cfg, serviceDocsys.RealClock{}, logger)
	if err != nil {
		log.Fatalf("Failed to set up services: %v", err)
	}
	defer cleanup()

	codec, err := auth.NewJWTSessionCodec(cfg.SessionSecret, cfg.SessionTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create session codec: %v", err)
	}
	sessions := auth.NewCookieSessionStore(codec, cfg.SessionTTL, cfg.Environment == "prod", logger)

	docHandler := handler.NewDocumentHandler(svcs.Documents, cfg.MaxUploadBytes, logger)
	authHandler := handler.NewAuthHandler(svcs.Credentials, svcs.Gate, cfg.OpenSignup, logger)
	importHandler := handler.NewImportHandler(svcs.Imports, cfg.MaxUploadBytes, logger)

	logger.Info("services initialized", "open_signup", cfg.OpenSignup)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, docHandler, authHandler, importHandler)

	// Apply middleware (innermost first)
	var h http.Handler = mux
	h = middleware.Session(sessions)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
