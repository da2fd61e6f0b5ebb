package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CustomerRepository interface {
	//IDを埋めて返す
	Create(ctx context.Context, c *model.Customer) error
}
