package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type SeedInput struct {
	AdminEmail    string
	AdminPassword string
}

type SeedOutput struct {
	Products  int  `json:"products"`
	Bairros   int  `json:"bairros"`
	AdminUser bool `json:"admin_user"`
}

// SeedUsecaseは同梱カタログと管理ユーザーをDBに入れる。
// 既にあるものはそのまま
type SeedUsecase struct {
	tx     repo.TransactionManager
	users  repo.AdminUserRepository
	hasher PasswordHasher
	log    *zap.Logger
}

func NewSeedUsecase(tx repo.TransactionManager, users repo.AdminUserRepository, hasher PasswordHasher, log *zap.Logger) *SeedUsecase {
	return &SeedUsecase{tx: tx, users: users, hasher: hasher, log: log}
}

func (u *SeedUsecase) Run(ctx context.Context, in SeedInput) (SeedOutput, error) {
	var out SeedOutput
	data := catalog.Fallback()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, p := range data.Products {
			_, err := r.Products().FindByID(ctx, p.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			if _, err := r.Products().Create(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, err)
			}
			out.Products++
		}

		existing, err := r.Bairros().List(ctx, false)
		if err != nil {
			return err
		}
		names := make(map[string]struct{}, len(existing))
		for _, b := range existing {
			names[b.Name] = struct{}{}
		}
		for _, b := range data.Bairros {
			if _, ok := names[b.Name]; ok {
				continue
			}
			b.ID = 0
			if _, err := r.Bairros().Create(ctx, b); err != nil {
				return fmt.Errorf("seed bairro %s: %w", b.Name, err)
			}
			out.Bairros++
		}
		return nil
	})
	if err != nil {
		return SeedOutput{}, err
	}

	email := strings.TrimSpace(in.AdminEmail)
	if email == "" || in.AdminPassword == "" {
		u.log.Info("admin credentials not set, skipping admin user")
		return out, nil
	}
	_, err = u.users.FindByEmail(ctx, email)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return SeedOutput{}, err
	}

	hash, err := u.hasher.Hash(in.AdminPassword)
	if err != nil {
		return SeedOutput{}, err
	}
	if err := u.users.Create(ctx, &model.AdminUser{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}); err != nil {
		return SeedOutput{}, fmt.Errorf("seed admin user: %w", err)
	}
	out.AdminUser = true
	return out, nil
}
