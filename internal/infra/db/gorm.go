package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/config"
	"storefront/internal/domain/model"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}
	return gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
}

// DSN は DATABASE_URL を最優先、無ければ POSTGRES_* から組み立てる
func DSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	user := orDefault(cfg.PostgresUser, "postgres")
	pass := orDefault(cfg.PostgresPassword, "postgres")
	name := orDefault(cfg.PostgresDB, "storefront")
	port := cfg.PostgresPort
	if port == 0 {
		port = 5432
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.PostgresHost, port, user, pass, name,
	)
}

// Migrate はテーブルを作成・更新する
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.Bairro{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.AdminUser{},
	)
}

func orDefault(v string, def string) string {
	if v == "" {
		return def
	}
	return v
}
