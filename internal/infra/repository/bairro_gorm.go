package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type BairroGormRepository struct {
	db *gorm.DB
}

func NewBairroGormRepository(db *gorm.DB) *BairroGormRepository {
	return &BairroGormRepository{db: db}
}

func (r *BairroGormRepository) List(ctx context.Context, onlyActive bool) ([]model.Bairro, error) {
	var bairros []model.Bairro

	tx := r.db.WithContext(ctx).Model(&model.Bairro{})
	if onlyActive {
		tx = tx.Where("active = ?", true)
	}
	if err := tx.Order("sort_order asc").Find(&bairros).Error; err != nil {
		return []model.Bairro{}, err
	}
	return bairros, nil
}

func (r *BairroGormRepository) FindByID(ctx context.Context, id int64) (model.Bairro, error) {
	var b model.Bairro
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bairro{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Bairro{}, err
	}
	return b, nil
}

func (r *BairroGormRepository) NextSortOrder(ctx context.Context) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&model.Bairro{}).
		Select("COALESCE(MAX(sort_order), -1) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *BairroGormRepository) Create(ctx context.Context, b model.Bairro) (model.Bairro, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Bairro{}, err
	}
	return b, nil
}

func (r *BairroGormRepository) Update(ctx context.Context, id int64, patch repo.BairroPatch) error {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Fee != nil {
		fields["fee"] = *patch.Fee
	}
	if patch.Active != nil {
		fields["active"] = *patch.Active
	}
	if len(fields) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}
	return r.updates(ctx, id, fields)
}

func (r *BairroGormRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.updates(ctx, id, map[string]interface{}{"active": active})
}

func (r *BairroGormRepository) UpdateSortOrder(ctx context.Context, id int64, sortOrder int) error {
	return r.updates(ctx, id, map[string]interface{}{"sort_order": sortOrder})
}

func (r *BairroGormRepository) updates(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Bairro{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
