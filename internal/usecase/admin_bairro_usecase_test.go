package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

func seededBairros() []model.Bairro {
	return []model.Bairro{
		{ID: 1, Name: "Aterrado", Fee: decimal.NewFromInt(3), Active: true, SortOrder: 0},
		{ID: 2, Name: "Bela Vista", Fee: decimal.NewFromInt(5), Active: false, SortOrder: 1},
	}
}

func newAdminBairros(bRepo *BairroRepoMock, tx repo.TransactionManager, pub *publisherSpy) *usecase.AdminBairroUsecase {
	return usecase.NewAdminBairroUsecase(bRepo, tx, validator.NewAdminValidator(), pub, zap.NewNop())
}

func TestAdminBairro_List_IncludesInactive(t *testing.T) {
	bRepo := &BairroRepoMock{}
	bRepo.On("List", mock.Anything, false).Return(seededBairros(), nil).Once()
	uc := newAdminBairros(bRepo, nil, &publisherSpy{})

	items, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	bRepo.AssertExpectations(t)
}

func TestAdminBairro_Create_RollbackOnFailure(t *testing.T) {
	bRepo := &BairroRepoMock{}
	pub := &publisherSpy{}
	bRepo.On("List", mock.Anything, false).Return(seededBairros(), nil).Once()
	bRepo.On("NextSortOrder", mock.Anything).Return(2, nil).Once()
	bRepo.On("Create", mock.Anything, mock.MatchedBy(func(b model.Bairro) bool {
		return b.ID == 0 && b.Name == "Retiro" && b.SortOrder == 2
	})).Return(nil, errors.New("unique violation")).Once()
	uc := newAdminBairros(bRepo, nil, pub)

	_, err := uc.List(context.Background())
	require.NoError(t, err)

	fee := decimal.NewFromInt(5)
	res, err := uc.Create(context.Background(), usecase.BairroInput{Name: strPtr("Retiro"), Fee: &fee})
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")

	assert.Len(t, res.Items, 2)
	assert.Equal(t, 0, pub.Calls())
	bRepo.AssertExpectations(t)
}

func TestAdminBairro_Create_WithoutPriorList(t *testing.T) {
	bRepo := &BairroRepoMock{}
	pub := &publisherSpy{}
	bRepo.On("List", mock.Anything, false).Return(seededBairros(), nil).Once()
	bRepo.On("NextSortOrder", mock.Anything).Return(9, nil).Once()
	bRepo.On("Create", mock.Anything, mock.MatchedBy(func(b model.Bairro) bool {
		return b.SortOrder == 9
	})).Return(model.Bairro{ID: 30, Name: "Retiro", Fee: decimal.NewFromInt(5), Active: true, SortOrder: 9}, nil).Once()
	uc := newAdminBairros(bRepo, nil, pub)

	fee := decimal.NewFromInt(5)
	res, err := uc.Create(context.Background(), usecase.BairroInput{Name: strPtr("Retiro"), Fee: &fee})
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.Equal(t, int64(30), res.Item.ID)

	require.Len(t, res.Items, 3)
	assert.Equal(t, int64(30), res.Items[2].ID)
	assert.Equal(t, 1, pub.Calls())
	bRepo.AssertExpectations(t)
}

func TestAdminBairro_Toggle_Rollback(t *testing.T) {
	bRepo := &BairroRepoMock{}
	bRepo.On("List", mock.Anything, false).Return(seededBairros(), nil).Once()
	bRepo.On("SetActive", mock.Anything, int64(2), true).Return(errors.New("timeout")).Once()
	uc := newAdminBairros(bRepo, nil, &publisherSpy{})

	_, err := uc.List(context.Background())
	require.NoError(t, err)

	res, err := uc.Toggle(context.Background(), 2, true)
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
	assert.False(t, res.Items[1].Active)
}

func TestAdminBairro_Update_InvalidFee(t *testing.T) {
	bRepo := &BairroRepoMock{}
	uc := newAdminBairros(bRepo, nil, &publisherSpy{})

	fee := decimal.NewFromInt(-1)
	_, err := uc.Update(context.Background(), 1, usecase.BairroInput{Fee: &fee})
	assertHTTPError(t, err, http.StatusBadRequest, "")

	_, err = uc.Update(context.Background(), 0, usecase.BairroInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid id")
}

func TestAdminBairro_Reorder_TxFailureRefetches(t *testing.T) {
	bRepo := &BairroRepoMock{}
	tx := &fakeTx{bairros: bRepo}
	bRepo.On("List", mock.Anything, false).Return(seededBairros(), nil).Twice()
	bRepo.On("UpdateSortOrder", mock.Anything, int64(2), 0).Return(nil).Once()
	bRepo.On("UpdateSortOrder", mock.Anything, int64(1), 1).Return(repo.ErrNotFound).Once()
	uc := newAdminBairros(bRepo, tx, &publisherSpy{})

	_, err := uc.List(context.Background())
	require.NoError(t, err)

	res, err := uc.Reorder(context.Background(), []int64{2, 1})
	assertHTTPError(t, err, http.StatusNotFound, "not found")

	assert.Equal(t, 0, res.Items[0].SortOrder)
	assert.Equal(t, int64(1), res.Items[0].ID)
	bRepo.AssertExpectations(t)
}
