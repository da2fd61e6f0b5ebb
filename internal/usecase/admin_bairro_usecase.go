package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type BairroInput struct {
	Name   *string
	Fee    *decimal.Decimal
	Active *bool
}

type AdminBairroUsecase struct {
	bairros   repo.BairroRepository
	tx        repo.TransactionManager
	validator AdminValidator
	publisher CatalogPublisher
	log       *zap.Logger

	cache listCache[model.Bairro]
}

// DI
func NewAdminBairroUsecase(
	bairros repo.BairroRepository,
	tx repo.TransactionManager,
	validator AdminValidator,
	publisher CatalogPublisher,
	log *zap.Logger,
) *AdminBairroUsecase {
	return &AdminBairroUsecase{
		bairros:   bairros,
		tx:        tx,
		validator: validator,
		publisher: publisher,
		log:       log,
	}
}

// 有効・無効どちらも sort_order 順で返す
func (u *AdminBairroUsecase) List(ctx context.Context) ([]model.Bairro, error) {
	if err := u.refetch(ctx); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.cache.Snapshot(), nil
}

// Createの仮の行は ID=0 で入れておく
func (u *AdminBairroUsecase) Create(ctx context.Context, in BairroInput) (MutationResult[model.Bairro], error) {
	if err := u.validator.ValidateBairro(in, false); err != nil {
		return MutationResult[model.Bairro]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Bairro]{}, err
	}

	next, err := u.bairros.NextSortOrder(ctx)
	if err != nil {
		u.log.Error("next sort order failed", zap.Error(err))
		return u.result(nil), NewHTTPError(http.StatusInternalServerError, "db error")
	}

	b := model.Bairro{
		Name:      strings.TrimSpace(*in.Name),
		Fee:       *in.Fee,
		Active:    true,
		SortOrder: next,
	}
	if in.Active != nil {
		b.Active = *in.Active
	}
	temp := func(v model.Bairro) bool { return v.ID == 0 && v.Name == b.Name }

	var created model.Bairro
	err = RunOptimistic(ctx, u.log, Mutation{
		Name:  "bairro.create",
		Apply: func() { u.cache.Append(b) },
		Commit: func(ctx context.Context) error {
			var err error
			created, err = u.bairros.Create(ctx, b)
			if err != nil {
				return err
			}
			u.cache.Update(temp, func(v *model.Bairro) { *v = created })
			return nil
		},
		Rollback: func(ctx context.Context) { u.cache.Remove(temp) },
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	return u.result(&created), nil
}

func (u *AdminBairroUsecase) Update(ctx context.Context, id int64, in BairroInput) (MutationResult[model.Bairro], error) {
	if id <= 0 {
		return MutationResult[model.Bairro]{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.validator.ValidateBairro(in, true); err != nil {
		return MutationResult[model.Bairro]{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Bairro]{}, err
	}

	patch := repo.BairroPatch{Name: in.Name, Fee: in.Fee, Active: in.Active}
	err := RunOptimistic(ctx, u.log, Mutation{
		Name: "bairro.update",
		Apply: func() {
			u.cache.Update(byBairroID(id), func(b *model.Bairro) {
				if patch.Name != nil {
					b.Name = *patch.Name
				}
				if patch.Fee != nil {
					b.Fee = *patch.Fee
				}
				if patch.Active != nil {
					b.Active = *patch.Active
				}
			})
		},
		Commit:   func(ctx context.Context) error { return u.bairros.Update(ctx, id, patch) },
		Rollback: u.rollbackByRefetch,
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	b, err := u.bairros.FindByID(ctx, id)
	if err != nil {
		u.log.Error("reload bairro failed", zap.Int64("id", id), zap.Error(err))
		return u.result(nil), NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.cache.Update(byBairroID(id), func(v *model.Bairro) { *v = b })
	return u.result(&b), nil
}

func (u *AdminBairroUsecase) Toggle(ctx context.Context, id int64, active bool) (MutationResult[model.Bairro], error) {
	if id <= 0 {
		return MutationResult[model.Bairro]{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Bairro]{}, err
	}
	set := func(v bool) func() {
		return func() {
			u.cache.Update(byBairroID(id), func(b *model.Bairro) { b.Active = v })
		}
	}

	err := RunOptimistic(ctx, u.log, Mutation{
		Name:     "bairro.toggle",
		Apply:    set(active),
		Commit:   func(ctx context.Context) error { return u.bairros.SetActive(ctx, id, active) },
		Rollback: func(ctx context.Context) { set(!active)() },
	})
	if err != nil {
		return u.result(nil), err
	}

	u.publisher.Changed(ctx)
	return u.result(nil), nil
}

func (u *AdminBairroUsecase) Reorder(ctx context.Context, ids []int64) (MutationResult[model.Bairro], error) {
	if len(ids) == 0 {
		return MutationResult[model.Bairro]{}, NewHTTPError(http.StatusBadRequest, "ids required")
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id <= 0 {
			return MutationResult[model.Bairro]{}, NewHTTPError(http.StatusBadRequest, "invalid ids")
		}
		seen[id] = struct{}{}
	}
	if err := u.ensureLoaded(ctx); err != nil {
		return MutationResult[model.Bairro]{}, err
	}

	err := RunOptimistic(ctx, u.log, Mutation{
		Name: "bairro.reorder",
		Apply: func() {
			for i, id := range ids {
				order := i
				u.cache.Update(byBairroID(id), func(b *model.Bairro) { b.SortOrder = order })
			}
		},
		Commit: func(ctx context.Context) error {
			return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
				for i, id := range ids {
					if err := r.Bairros().UpdateSortOrder(ctx, id, i); err != nil {
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

func (u *AdminBairroUsecase) ensureLoaded(ctx context.Context) error {
	if u.cache.Loaded() {
		return nil
	}
	if err := u.refetch(ctx); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AdminBairroUsecase) result(item *model.Bairro) MutationResult[model.Bairro] {
	return MutationResult[model.Bairro]{Item: item, Items: u.cache.Snapshot()}
}

func (u *AdminBairroUsecase) refetch(ctx context.Context) error {
	items, err := u.bairros.List(ctx, false)
	if err != nil {
		u.log.Error("list bairros failed", zap.Error(err))
		return err
	}
	u.cache.Replace(items)
	return nil
}

func (u *AdminBairroUsecase) rollbackByRefetch(ctx context.Context) {
	_ = u.refetch(ctx)
}

func byBairroID(id int64) func(model.Bairro) bool {
	return func(b model.Bairro) bool { return b.ID == id }
}
