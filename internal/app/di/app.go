package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	companyadapters "stockwatch/internal/feature/companyinfo/adapters"
	companyusecase "stockwatch/internal/feature/companyinfo/usecase"
	intradayadapters "stockwatch/internal/feature/intraday/adapters"
	intradayusecase "stockwatch/internal/feature/intraday/usecase"
	listingsadapters "stockwatch/internal/feature/listings/adapters"
	listingsusecase "stockwatch/internal/feature/listings/usecase"
	"stockwatch/internal/platform/cache"
	"stockwatch/internal/platform/config"
	"stockwatch/internal/platform/csvdecode"
	platformdb "stockwatch/internal/platform/db"
	"stockwatch/internal/platform/externalapi/alphavantage"
	"stockwatch/internal/platform/http/handler"
	platformredis "stockwatch/internal/platform/redis"
	"stockwatch/internal/shared/syncpolicy"
)

const redisConnectTimeout = 3 * time.Second

// Models are the gorm models of the local store.
var Models = []any{
	&listingsadapters.ListingModel{},
	&companyadapters.CompanyInfoModel{},
	&intradayadapters.IntradayModel{},
}

// App holds the wired components shared by the binaries.
type App struct {
	DB     *gorm.DB
	Redis  *redis.Client // nil when Redis is not configured or unreachable
	Client *alphavantage.Client
	Remote *cache.CachingRemoteSource

	Listings  *listingsusecase.ListingsUsecase
	Companies *companyusecase.CompanyInfoUsecase
	Intraday  *intradayusecase.IntradayUsecase
}

// NewApp opens the local store, connects to Redis when configured and wires the usecases.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := platformdb.OpenDB(platformdb.Config{
		Driver:        cfg.DBDriver,
		DSN:           cfg.DBDSN,
		RunMigrations: true,
	}, Models...)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		tmp, err := platformredis.NewRedisClient(rctx, platformredis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		cancel()
		if err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
		}
	}

	client := NewAlphaVantageClient(cfg)
	return Wire(cfg, db, rdb, client), nil
}

// Wire builds the usecases on top of already opened stores.
func Wire(cfg *config.Config, db *gorm.DB, rdb *redis.Client, client *alphavantage.Client) *App {
	remote := NewRemoteSource(cfg, client, rdb)
	opts := []syncpolicy.Option{syncpolicy.WithRefreshTimeout(cfg.RefreshTimeout)}

	return &App{
		DB:     db,
		Redis:  rdb,
		Client: client,
		Remote: remote,
		Listings: listingsusecase.NewListingsUsecase(
			listingsadapters.NewListingRepository(db), remote, csvdecode.ListingStatusLayout, opts...),
		Companies: companyusecase.NewCompanyInfoUsecase(
			companyadapters.NewCompanyInfoRepository(db), remote, opts...),
		Intraday: intradayusecase.NewIntradayUsecase(
			intradayadapters.NewIntradayRepository(db), remote,
			intradayusecase.Config{TradingDayStaleness: cfg.IntradayTradingDayStaleness}, opts...),
	}
}

// Close releases every connection held by the App.
func (a *App) Close() error {
	var errs []error
	if a.Client != nil {
		errs = append(errs, a.Client.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

// Pingers returns the health checks of the App's dependencies.
func (a *App) Pingers() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
