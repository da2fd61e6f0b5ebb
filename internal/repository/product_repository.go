package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧条件。Categoryが空なら全カテゴリ
type ProductListQuery struct {
	Category      model.Category
	OnlyAvailable bool
}

// 部分更新。nilの項目は変更しない
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Tags        []string
	Category    *model.Category
	Available   *bool
}

// 商品の永続化だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	//カテゴリ内の次の sort_order（空なら0）
	NextSortOrder(ctx context.Context, category model.Category) (int, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) error
	SetAvailable(ctx context.Context, id string, available bool) error
	UpdateSortOrder(ctx context.Context, id string, sortOrder int) error
}
