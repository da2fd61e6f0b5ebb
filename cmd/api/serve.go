package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/config"
	"storefront/internal/domain/pricing"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	"storefront/internal/infra/gemini"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/token"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

const accessTokenTTL = 15 * time.Minute

func runServe(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	money, err := pricing.NewFormatter(cfg.Locale)
	if err != nil {
		return err
	}
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//セッションと変更通知（Redisが無ければプロセス内）
	var sessions repo.SessionStore = cache.NewMemorySessionStore(cfg.SessionTTL)
	var notifier repo.CatalogNotifier
	if cfg.RedisConfigured() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		sessions = cache.NewRedisSessionStore(rdb, cfg.SessionTTL)
		notifier = cache.NewRedisNotifier(rdb, log)
	}

	//DB未設定なら同梱カタログ・保存なし・管理画面なし
	var (
		catalogUC  *usecase.CatalogUsecase
		tx         repo.TransactionManager
		orderItems repo.OrderItemRepository
		admin      *server.AdminHandlers
	)
	if cfg.PersistenceConfigured() {
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return err
		}

		products := infraRepo.NewProductGormRepository(gormDB)
		bairros := infraRepo.NewBairroGormRepository(gormDB)
		users := infraRepo.NewAdminUserGormRepository(gormDB)
		txm := infraRepo.NewTxManagerGorm(gormDB)
		tx = txm
		orderItems = infraRepo.NewOrderItemGormRepository(gormDB)

		if notifier == nil {
			notifier = cache.NewMemoryNotifier()
		}
		catalogUC = usecase.NewRemoteCatalogUsecase(products, bairros, notifier, log)

		jwt := token.NewJWT(cfg.JWTSecret, accessTokenTTL)
		v := validator.NewAdminValidator()
		admin = &server.AdminHandlers{
			Auth: handler.NewAdminAuthHandler(usecase.NewAuthUsecase(
				users, usecase.NewBcryptPasswordVerifier(), jwt, v, clock, log,
			)),
			Products: handler.NewAdminProductHandler(usecase.NewAdminProductUsecase(
				products, txm, v, catalogUC, idGen, log,
			)),
			Bairros: handler.NewAdminBairroHandler(usecase.NewAdminBairroUsecase(
				bairros, txm, v, catalogUC, log,
			)),
			Tokens: jwt,
			Users:  users,
		}
		log.Info("persistence enabled")
	} else {
		catalogUC = usecase.NewStaticCatalogUsecase(log)
		log.Info("persistence not configured, serving bundled catalog")
	}

	var rec usecase.Recommender
	if cfg.GeminiConfigured() {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn("gemini client unavailable, concierge uses fallback answers", zap.Error(err))
		} else {
			rec = client
		}
	}

	runner := usecase.NewSessionRunner(sessions, clock)
	shopUC := usecase.NewShopUsecase(runner, catalogUC, idGen, clock, money, usecase.ShopConfig{
		ExitDelay:   cfg.ViewExitDelay,
		PaymentStep: cfg.CheckoutPaymentStep,
	})
	checkoutUC := usecase.NewCheckoutUsecase(runner, catalogUC, tx, orderItems, money, clock, usecase.CheckoutConfig{
		StoreName:       cfg.StoreName,
		WhatsAppNumber:  cfg.WhatsAppNumber,
		MessagingDomain: cfg.MessagingDomain,
		PixKey:          cfg.PixKey,
		ClearCart:       cfg.ClearCartOnCheckout,
	}, log)
	conciergeUC := usecase.NewConciergeUsecase(runner, catalogUC, rec, clock, cfg.StoreName, log)

	e := server.New(cfg, log, server.Handlers{
		Catalog:   handler.NewCatalogHandler(catalogUC),
		Session:   handler.NewSessionHandler(shopUC),
		Checkout:  handler.NewCheckoutHandler(checkoutUC),
		Concierge: handler.NewConciergeHandler(conciergeUC),
	}, admin)

	g, gctx := errgroup.WithContext(ctx)
	//購読してから初回読み込み。listen前に済ませる
	watch, err := catalogUC.Start(gctx)
	if err != nil {
		log.Warn("catalog watch unavailable", zap.Error(err))
	} else {
		g.Go(watch)
	}
	g.Go(func() error {
		return server.Start(gctx, e, listenAddr(cfg.Port), log)
	})
	return g.Wait()
}

func listenAddr(port string) string {
	if port != "" && port[0] == ':' {
		return port
	}
	return ":" + port
}
