// Command ingest は指定した銘柄の日中足をまとめて取り込みます。
//
// 使い方:
//
//	go run ./cmd/ingest IBM AAPL MSFT
//
// 銘柄を省略した場合は、ローカルの一覧の値上がり・値下がり上位の銘柄を取り込みます。
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stockwatch/internal/app/di"
	"stockwatch/internal/platform/config"
	"stockwatch/internal/platform/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, err := di.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer func() { _ = app.Close() }()

	symbols := os.Args[1:]
	if len(symbols) == 0 {
		gainers, losers, err := app.Listings.Movers(ctx, 0)
		if err != nil {
			log.Fatal("failed to load symbols:", err)
		}
		seen := map[string]struct{}{}
		for _, l := range append(gainers, losers...) {
			if _, ok := seen[l.Symbol]; ok {
				continue
			}
			seen[l.Symbol] = struct{}{}
			symbols = append(symbols, l.Symbol)
		}
	}
	if len(symbols) == 0 {
		log.Fatal("no symbols to ingest; pass symbols or sync listings first")
	}

	failed, err := app.Intraday.IngestAll(ctx, symbols)
	if err != nil {
		log.Fatal(err)
	}
	if failed > 0 {
		log.Fatalf("ingest finished with %d failure(s) out of %d", failed, len(symbols))
	}
	log.Println("ingest ok")
}
