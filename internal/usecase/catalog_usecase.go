package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 店頭が読むカタログ
type CatalogReader interface {
	Products() []model.Product
	ActiveBairros() []model.Bairro
	FindProduct(id string) (model.Product, bool)
}

// 管理画面の変更を店頭に伝える
type CatalogPublisher interface {
	Changed(ctx context.Context)
}

type CatalogOutput struct {
	Burgers []model.Product `json:"burgers"`
	Drinks  []model.Product `json:"drinks"`
	Bairros []model.Bairro  `json:"bairros"`
}

// CatalogUsecaseはカタログのスナップショットを持つ。
// DB未設定なら同梱データだけで動く
type CatalogUsecase struct {
	products repo.ProductRepository
	bairros  repo.BairroRepository
	notifier repo.CatalogNotifier
	fallback catalog.Data
	log      *zap.Logger

	mu       sync.RWMutex
	snapshot catalog.Data
}

func NewStaticCatalogUsecase(log *zap.Logger) *CatalogUsecase {
	fb := catalog.Fallback()
	return &CatalogUsecase{
		fallback: fb,
		snapshot: fb,
		log:      log,
	}
}

// DI
func NewRemoteCatalogUsecase(
	products repo.ProductRepository,
	bairros repo.BairroRepository,
	notifier repo.CatalogNotifier,
	log *zap.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		products: products,
		bairros:  bairros,
		notifier: notifier,
		fallback: catalog.Fallback(),
		log:      log,
	}
}

func (u *CatalogUsecase) remote() bool {
	return u.products != nil && u.bairros != nil
}

// Refreshは商品と地区を並行で取り直す。
// 失敗したテーブルは同梱データに差し替える（エラーは返さない）
func (u *CatalogUsecase) Refresh(ctx context.Context) {
	if !u.remote() {
		return
	}

	var products []model.Product
	var bairros []model.Bairro

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := u.products.List(gctx, repo.ProductListQuery{OnlyAvailable: true})
		if err != nil {
			u.log.Warn("fetch products failed, using fallback", zap.Error(err))
			ps = u.fallback.Products
		}
		catalog.SortProducts(ps)
		products = ps
		return nil
	})
	g.Go(func() error {
		bs, err := u.bairros.List(gctx, true)
		if err != nil {
			u.log.Warn("fetch bairros failed, using fallback", zap.Error(err))
			bs = u.fallback.Bairros
		}
		bairros = bs
		return nil
	})
	_ = g.Wait()

	u.mu.Lock()
	u.snapshot = catalog.Data{Products: products, Bairros: bairros}
	u.mu.Unlock()

	u.log.Debug("catalog refreshed", zap.Int("products", len(products)), zap.Int("bairros", len(bairros)))
}

// Startは通知を購読してから最初のRefreshをする。
// 購読前の変更を取りこぼさないため順番は固定。
// 戻り値のwatchはctxが終わるまで通知ごとにRefreshする。
// 購読に失敗してもRefreshは済ませてからエラーを返す
func (u *CatalogUsecase) Start(ctx context.Context) (watch func() error, err error) {
	idle := func() error {
		<-ctx.Done()
		return nil
	}
	if !u.remote() || u.notifier == nil {
		u.Refresh(ctx)
		return idle, nil
	}

	ch, err := u.notifier.Subscribe(ctx)
	if err != nil {
		u.Refresh(ctx)
		return nil, err
	}
	u.Refresh(ctx)

	return func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-ch:
				if !ok {
					return nil
				}
				u.Refresh(ctx)
			}
		}
	}, nil
}

// WatchはStartとwatchをまとめて回す。ctxが終わるまで戻らない
func (u *CatalogUsecase) Watch(ctx context.Context) error {
	watch, err := u.Start(ctx)
	if err != nil {
		return err
	}
	return watch()
}

// Changedは管理画面の書き込み成功後に呼ばれる
func (u *CatalogUsecase) Changed(ctx context.Context) {
	if u.notifier == nil {
		u.Refresh(ctx)
		return
	}
	if err := u.notifier.Publish(ctx); err != nil {
		u.log.Warn("publish catalog change failed, refreshing locally", zap.Error(err))
		u.Refresh(ctx)
	}
}

func (u *CatalogUsecase) Products() []model.Product {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]model.Product(nil), u.snapshot.Products...)
}

func (u *CatalogUsecase) Burgers() []model.Product {
	return catalog.Filter(u.Products(), model.CategoryBurger)
}

func (u *CatalogUsecase) Drinks() []model.Product {
	return catalog.Filter(u.Products(), model.CategoryDrink)
}

func (u *CatalogUsecase) ActiveBairros() []model.Bairro {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]model.Bairro(nil), u.snapshot.Bairros...)
}

func (u *CatalogUsecase) FindProduct(id string) (model.Product, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, p := range u.snapshot.Products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (u *CatalogUsecase) Catalog() CatalogOutput {
	return CatalogOutput{
		Burgers: u.Burgers(),
		Drinks:  u.Drinks(),
		Bairros: u.ActiveBairros(),
	}
}
