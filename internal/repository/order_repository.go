package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	//ID と order_number(DB採番) を埋めて返す
	Create(ctx context.Context, o *model.Order) error
}
