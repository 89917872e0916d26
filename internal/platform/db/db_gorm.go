package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	activityentity "shop_backend/internal/feature/activity/domain/entity"
	"shop_backend/internal/feature/auth/adapters"
	"shop_backend/internal/feature/auth/domain/entity"
)

// Config holds the relational store connection settings.
// Driver selects "mysql" (default) or "postgres"; both map unique violations
// through the same adapter translation.
type Config struct {
	Driver   string
	User     string
	Password string
	Name     string
	Host     string
	Port     string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		Driver:   os.Getenv("DB_DRIVER"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
	}
}

// BuildDSN はドライバーに応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// Opener opens a gorm connection for a DSN. It exists so retry behavior can be
// tested without a live database.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続が成功するかタイムアウトするまでリトライします。
// コンテナ起動時にDBの準備がまだ整っていないケースを吸収します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// openerFor returns the gorm opener for the configured driver.
// TranslateError maps driver duplicate-key errors onto gorm.ErrDuplicatedKey.
func openerFor(cfg Config) Opener {
	return func(dsn string) (*gorm.DB, error) {
		var dialector gorm.Dialector
		if cfg.Driver == "postgres" {
			dialector = gpostgres.Open(dsn)
		} else {
			dialector = gmysql.Open(dsn)
		}
		return gorm.Open(dialector, &gorm.Config{TranslateError: true})
	}
}

// OpenDB connects to the relational store configured by environment variables
// and, when RUN_MIGRATIONS=true, migrates the schema.
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, openerFor(cfg))
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Session, RememberToken, ActivityLog）
		if err := db.AutoMigrate(
			&entity.User{},
			&entity.RememberToken{},
			&adapters.SessionModel{},
			&activityentity.Log{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

// ErrUnsupportedDriver is reported by Validate for unknown driver names.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Validate checks the driver name before a connection is attempted.
func (c Config) Validate() error {
	switch c.Driver {
	case "", "mysql", "postgres":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}
