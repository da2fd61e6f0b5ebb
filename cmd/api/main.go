package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/config"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "burger shop storefront API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server",
		RunE:  withApp(runServe),
	}
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		&cobra.Command{
			Use:   "migrate",
			Short: "auto-migrate the database schema",
			RunE:  withApp(runMigrate),
		},
		&cobra.Command{
			Use:   "seed",
			Short: "insert the bundled catalog and the admin user",
			RunE:  withApp(runSeed),
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withAppは設定・ロガー・シグナル付きctxを用意してfnを呼ぶ
func withApp(fn func(ctx context.Context, cfg config.Config, log *zap.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return fn(ctx, cfg, log)
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
