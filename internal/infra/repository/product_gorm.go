package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// カテゴリ→sort_order の順で返す
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{})
	if q.OnlyAvailable {
		tx = tx.Where("available = ?", true)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	if err := tx.Order("category asc").Order("sort_order asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 空のカテゴリは0
func (r *ProductGormRepository) NextSortOrder(ctx context.Context, category model.Category) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("COALESCE(MAX(sort_order), -1) + 1").
		Where("category = ?", category).
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 指定された項目だけ更新
func (r *ProductGormRepository) Update(ctx context.Context, id string, patch repo.ProductPatch) error {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Image != nil {
		fields["image"] = *patch.Image
	}
	if patch.Tags != nil {
		fields["tags"] = pq.StringArray(patch.Tags)
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Available != nil {
		fields["available"] = *patch.Available
	}
	if len(fields) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}
	return r.updates(ctx, id, fields)
}

func (r *ProductGormRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	return r.updates(ctx, id, map[string]interface{}{"available": available})
}

func (r *ProductGormRepository) UpdateSortOrder(ctx context.Context, id string, sortOrder int) error {
	return r.updates(ctx, id, map[string]interface{}{"sort_order": sortOrder})
}

func (r *ProductGormRepository) updates(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
