package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 管理画面の入力検証の約束
type AdminValidator interface {
	ValidateLogin(email string, password string) error
	ValidateProduct(in ProductInput, partial bool) error
	ValidateBairro(in BairroInput, partial bool) error
}

// nilの項目は未指定
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Tags        []string
	Category    *string
	Available   *bool
}

type AdminProductUsecase struct {
	products  repo.ProductRepository
	tx        repo.TransactionManager
	validator AdminValidator
	publisher CatalogPublisher
	idGen     IDGenerator
	log       *zap.Logger

	cache listCache[model.Product]
}

// DI
func NewAdminProductUsecase(
	products repo.ProductRepository,
	tx repo.TransactionManager,
	validator AdminValidator,
	publisher CatalogPublisher,
	idGen IDGenerator,
	log *zap.Logger,
) *AdminProductUsecase {
	return &AdminProductUsecase{
		products:  products,
		tx:        tx,
		validator: validator,
		publisher: publisher,
		idGen:     idGen,
		log:       log,
	}
}

// Listは全件取り直してローカル一覧を置き換える。categoryは all/burger/drink
func (u *AdminProductUsecase) List(ctx context.Context, category string) ([]model.Product, error) {
	switch category {
	case "", "all", string(model.CategoryBurger), string(model.CategoryDrink):
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	if err := u.refetch(ctx); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := u.cache.Snapshot()
	if category == "" || category == "all" {
		return items, nil
	}
	out := make([]model.Product, 0, len(items))
	for _, p := range items {
		if string(p.Category) == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (u *AdminProductUsecase) Create(ctx context.Context, in ProductInput) (MutationResult[model.Product], error) {
	if err := u.validator.ValidateProduct(in, false); err != nil {
		return MutationResult[model.Product]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Product]{}, err
	}

	category := model.Category(*in.Category)
	//同じカテゴリの末尾（DBの最大値から）
	next, err := u.products.NextSortOrder(ctx, category)
	if err != nil {
		u.log.Error("next sort order failed", zap.String("category", string(category)), zap.Error(err))
		return u.result(nil), NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p := model.Product{
		ID:        u.idGen.NewID(),
		Name:      strings.TrimSpace(*in.Name),
		Price:     *in.Price,
		Category:  category,
		Available: true,
		SortOrder: next,
		Tags:      pq.StringArray{},
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if in.Available != nil {
		p.Available = *in.Available
	}

	var created model.Product
	err = RunOptimistic(ctx, u.log, Mutation{
		Name:  "product.create",
		Apply: func() { u.cache.Append(p) },
		Commit: func(ctx context.Context) error {
			var err error
			created, err = u.products.Create(ctx, p)
			if err != nil {
				return err
			}
			u.cache.Update(byProductID(p.ID), func(v *model.Product) { *v = created })
			return nil
		},
		//仮の行を消す
		Rollback: func(ctx context.Context) { u.cache.Remove(byProductID(p.ID)) },
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	return u.result(&created), nil
}

// Updateは部分更新。失敗したら一覧を取り直す
func (u *AdminProductUsecase) Update(ctx context.Context, id string, in ProductInput) (MutationResult[model.Product], error) {
	if err := u.validator.ValidateProduct(in, true); err != nil {
		return MutationResult[model.Product]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Product]{}, err
	}

	patch := repo.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Tags:        in.Tags,
		Available:   in.Available,
	}
	if in.Category != nil {
		c := model.Category(*in.Category)
		patch.Category = &c
	}

	err := RunOptimistic(ctx, u.log, Mutation{
		Name:     "product.update",
		Apply:    func() { u.cache.Update(byProductID(id), func(p *model.Product) { applyProductPatch(p, patch) }) },
		Commit:   func(ctx context.Context) error { return u.products.Update(ctx, id, patch) },
		Rollback: u.rollbackByRefetch,
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	//DBの値で置き換える
	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		u.log.Error("reload product failed", zap.String("id", id), zap.Error(err))
		return u.result(nil), NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.cache.Update(byProductID(id), func(v *model.Product) { *v = p })
	return u.result(&p), nil
}

// Toggleは販売可否の切替。失敗したら反転して戻す
func (u *AdminProductUsecase) Toggle(ctx context.Context, id string, available bool) (MutationResult[model.Product], error) {
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Product]{}, err
	}
	set := func(v bool) func() {
		return func() {
			u.cache.Update(byProductID(id), func(p *model.Product) { p.Available = v })
		}
	}

	err := RunOptimistic(ctx, u.log, Mutation{
		Name:     "product.toggle",
		Apply:    set(available),
		Commit:   func(ctx context.Context) error { return u.products.SetAvailable(ctx, id, available) },
		Rollback: func(ctx context.Context) { set(!available)() },
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	return u.result(nil), nil
}

// Reorderは ids の順番で sort_order を振り直す（Tx）
func (u *AdminProductUsecase) Reorder(ctx context.Context, ids []string) (MutationResult[model.Product], error) {
	if len(ids) == 0 {
		return MutationResult[model.Product]{}, NewHTTPError(http.StatusBadRequest, "ids required")
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return MutationResult[model.Product]{}, NewHTTPError(http.StatusBadRequest, "duplicate id")
		}
		seen[id] = struct{}{}
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Product]{}, err
	}

	err := RunOptimistic(ctx, u.log, Mutation{
		Name: "product.reorder",
		Apply: func() {
			for i, id := range ids {
				order := i
				u.cache.Update(byProductID(id), func(p *model.Product) { p.SortOrder = order })
			}
		},
		Commit: func(ctx context.Context) error {
			return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
				for i, id := range ids {
					if err := r.Products().UpdateSortOrder(ctx, id, i); err != nil {
						return err
					}
				}
				return nil
			})
		},
		Rollback: u.rollbackByRefetch,
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	return u.result(nil), nil
}

// 一覧をまだ読んでいなければ読む
func (u *AdminProductUsecase) ensureLoaded(ctx context.Context) error {
	if u.cache.Loaded() {
		return nil
	}
	if err := u.refetch(ctx); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AdminProductUsecase) result(item *model.Product) MutationResult[model.Product] {
	return MutationResult[model.Product]{Item: item, Items: u.cache.Snapshot()}
}

func (u *AdminProductUsecase) refetch(ctx context.Context) error {
	items, err := u.products.List(ctx, repo.ProductListQuery{})
	if err != nil {
		u.log.Error("list products failed", zap.Error(err))
		return err
	}
	u.cache.Replace(items)
	return nil
}

func (u *AdminProductUsecase) rollbackByRefetch(ctx context.Context) {
	_ = u.refetch(ctx)
}

func byProductID(id string) func(model.Product) bool {
	return func(p model.Product) bool { return p.ID == id }
}

func applyProductPatch(p *model.Product, patch repo.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Tags != nil {
		p.Tags = patch.Tags
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}
}
