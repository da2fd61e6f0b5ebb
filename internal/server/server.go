package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// NewはechoにCORS・ログ・ルートを載せて返す
func New(cfg config.Config, log *zap.Logger, h Handlers, admin *AdminHandlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(echo.WrapMiddleware(corsHandler(cfg).Handler))

	RegisterRoutes(e, h, admin)
	return e
}

// FE_URL（カンマ区切り可）だけ許可。未設定なら全許可
func corsHandler(cfg config.Config) *cors.Cors {
	origins := []string{"*"}
	if cfg.FEURL != "" {
		origins = origins[:0]
		for _, o := range strings.Split(cfg.FEURL, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: cfg.FEURL != "",
	})
}

// Startはctxが終わるまで動き、終わったらgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
