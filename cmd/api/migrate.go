package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/usecase"
)

var errNoDatabase = errors.New("database is not configured (DATABASE_URL or POSTGRES_*)")

func runMigrate(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if !cfg.PersistenceConfigured() {
		return errNoDatabase
	}
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info("migrated")
	return nil
}

// seedはスキーマを作ってから同梱データを入れる
func runSeed(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if !cfg.PersistenceConfigured() {
		return errNoDatabase
	}
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	uc := usecase.NewSeedUsecase(
		infraRepo.NewTxManagerGorm(gormDB),
		infraRepo.NewAdminUserGormRepository(gormDB),
		usecase.NewBcryptPasswordHasher(12),
		log,
	)
	out, err := uc.Run(ctx, usecase.SeedInput{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	log.Info("seeded",
		zap.Int("products", out.Products),
		zap.Int("bairros", out.Bairros),
		zap.Bool("admin_user", out.AdminUser),
	)
	return nil
}
