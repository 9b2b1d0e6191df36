package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// retryInterval は接続リトライの間隔です。テストから短縮できるよう変数にしています。
var retryInterval = 3 * time.Second

// Config はローカルストアの接続設定です。
type Config struct {
	Driver         string // "sqlite" または "postgres"
	DSN            string
	RunMigrations  bool
	ConnectTimeout time.Duration
}

// Opener は DSN から gorm.DB を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// Dialector は driver に対応する gorm.Dialector を返します。
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// NewOpener は driver 用の Opener を返します。
func NewOpener(driver string) (Opener, error) {
	if _, err := Dialector(driver, ""); err != nil {
		return nil, err
	}
	return func(dsn string) (*gorm.DB, error) {
		d, _ := Dialector(driver, dsn)
		return gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	}, nil
}

// ConnectWithRetry は timeout まで retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB はローカルストアへ接続し、必要ならマイグレーションを実行します。
// models は AutoMigrate の対象です。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	open, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	db, err := ConnectWithRetry(cfg.DSN, timeout, open)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// SQLite は書き込みが1本に限られ、:memory: は接続ごとに別DBになる
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations {
		// マイグレーション（listings, company info, intraday）
		if err := Migrate(db, models...); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate は models のテーブルを作成・更新します。
func Migrate(db *gorm.DB, models ...any) error {
	if len(models) == 0 {
		return nil
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
