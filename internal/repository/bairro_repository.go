package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
)

type BairroPatch struct {
	Name   *string
	Fee    *decimal.Decimal
	Active *bool
}

// 配達エリアの永続化
type BairroRepository interface {
	List(ctx context.Context, onlyActive bool) ([]model.Bairro, error)
	FindByID(ctx context.Context, id int64) (model.Bairro, error)
	NextSortOrder(ctx context.Context) (int, error)

	Create(ctx context.Context, b model.Bairro) (model.Bairro, error)
	Update(ctx context.Context, id int64, patch BairroPatch) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateSortOrder(ctx context.Context, id int64, sortOrder int) error
}
