package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockwatch/internal/app/di"
	"stockwatch/internal/app/router"
	companyhandler "stockwatch/internal/feature/companyinfo/transport/handler"
	intradayhandler "stockwatch/internal/feature/intraday/transport/handler"
	listingshandler "stockwatch/internal/feature/listings/transport/handler"
	"stockwatch/internal/platform/config"
	"stockwatch/internal/platform/http/handler"
	"stockwatch/internal/platform/logging"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := di.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Println("[ERROR] Failed to close app:", err)
		}
	}()

	// Handler
	r := router.NewRouter(router.Handlers{
		Listings:  listingshandler.NewListingsHandler(app.Listings),
		Companies: companyhandler.NewCompanyInfoHandler(app.Companies),
		Intraday:  intradayhandler.NewIntradayHandler(app.Intraday),
		Health:    handler.Health(app.Pingers()),
	}, cfg.JWTSecret)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Forced refreshes are open to everyone.")
	}

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// ストリームは強制更新が終わるまで続くため、更新のタイムアウトより長くする
		WriteTimeout: cfg.RefreshTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "address", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
