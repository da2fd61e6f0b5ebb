package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain/checkout"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

func checkoutConfig() usecase.CheckoutConfig {
	return usecase.CheckoutConfig{
		StoreName:       "BRANDAO BURGUER",
		WhatsAppNumber:  "5524998221778",
		MessagingDomain: "wa.me",
		PixKey:          "pix@brandao.com",
	}
}

// 支払いステップまで進めたセッションID
func readyToSubmit(t *testing.T, f shopFixture) string {
	t.Helper()
	ctx := context.Background()
	id := f.toCart(t)

	_, err := f.shop.CheckoutNext(ctx, id)
	require.NoError(t, err)
	_, err = f.shop.UpdateDetails(ctx, id, usecase.DetailsInput{
		Name: "Ana", Address: "Rua A, 10", Bairro: "Centro", Payment: "pix",
	})
	require.NoError(t, err)
	_, err = f.shop.CheckoutNext(ctx, id)
	require.NoError(t, err)
	return id
}

func TestCheckout_Submit_WithoutPersistence(t *testing.T) {
	f := newShopFixture(t, 0)
	uc := usecase.NewCheckoutUsecase(f.runner, f.catalog, nil, nil, newFormatter(t), f.clock, checkoutConfig(), zap.NewNop())
	ctx := context.Background()
	id := readyToSubmit(t, f)

	out, err := uc.Submit(ctx, id)
	require.NoError(t, err)

	assert.Nil(t, out.OrderNumber)
	assert.True(t, strings.HasPrefix(out.URL, "https://wa.me/5524998221778?text="))
	assert.NotContains(t, out.URL, "+")
	assert.Contains(t, out.Message, "Olá BRANDAO BURGUER! 🍔 Novo pedido:")
	assert.Contains(t, out.Message, "• 2x Clássica Americana (R$ 378,00)")
	assert.Contains(t, out.Message, "Subtotal: R$ 597,00 + Entrega: R$ 3,00")
	assert.Contains(t, out.Message, "*TOTAL: R$ 600,00*")
	assert.Contains(t, out.Message, "Chave Pix: pix@brandao.com")
	assert.NotContains(t, out.Message, "PEDIDO Nº")

	//入力は破棄、カートは残す
	sv, err := f.shop.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepReview, sv.Checkout.Step)
	assert.Empty(t, sv.Checkout.Details.Name)
	assert.Equal(t, 3, sv.TotalItems)

	//QRは直近のリンク
	png, err := uc.QRCode(ctx, id)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestCheckout_Submit_ClearCart(t *testing.T) {
	f := newShopFixture(t, 0)
	cfg := checkoutConfig()
	cfg.ClearCart = true
	uc := usecase.NewCheckoutUsecase(f.runner, f.catalog, nil, nil, newFormatter(t), f.clock, cfg, zap.NewNop())
	ctx := context.Background()
	id := readyToSubmit(t, f)

	_, err := uc.Submit(ctx, id)
	require.NoError(t, err)

	sv, err := f.shop.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, sv.TotalItems)
}

func TestCheckout_Submit_NotReady(t *testing.T) {
	f := newShopFixture(t, 0)
	uc := usecase.NewCheckoutUsecase(f.runner, f.catalog, nil, nil, newFormatter(t), f.clock, checkoutConfig(), zap.NewNop())
	ctx := context.Background()
	id := f.toCart(t)

	_, err := uc.Submit(ctx, id)
	assertHTTPError(t, err, http.StatusConflict, "submit not available at this step")

	_, err = uc.QRCode(ctx, id)
	assertHTTPError(t, err, http.StatusNotFound, "no submitted order")
}

func TestCheckout_Submit_PersistsOrder(t *testing.T) {
	f := newShopFixture(t, 0)
	tx := &fakeTx{customers: &CustomerRepoMock{}, orders: &OrderRepoMock{}}
	items := &OrderItemRepoMock{}

	tx.customers.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.Name == "Ana" && c.Bairro != nil && *c.Bairro == "Centro"
	})).Return(nil).Once()
	tx.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.CustomerID == 10 && o.Total.IntPart() == 600 && o.PaymentMethod == model.PaymentPix
	})).Return(nil).Once()
	//明細の失敗はリンク生成を止めない
	items.On("CreateBulk", mock.Anything, int64(20), mock.MatchedBy(func(rows []model.OrderItem) bool {
		return len(rows) == 2 && rows[0].ProductID == "b1" && rows[0].Quantity == 2 && rows[0].UnitPrice.IntPart() == 189
	})).Return(errors.New("insert failed")).Once()

	uc := usecase.NewCheckoutUsecase(f.runner, f.catalog, tx, items, newFormatter(t), f.clock, checkoutConfig(), zap.NewNop())
	id := readyToSubmit(t, f)

	out, err := uc.Submit(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, out.OrderNumber)
	assert.Equal(t, int64(1042), *out.OrderNumber)
	assert.Contains(t, out.Message, "*PEDIDO Nº 1042*")

	tx.customers.AssertExpectations(t)
	tx.orders.AssertExpectations(t)
	items.AssertExpectations(t)
}

func TestCheckout_Submit_SaveFailureStillLinks(t *testing.T) {
	f := newShopFixture(t, 0)
	tx := &fakeTx{customers: &CustomerRepoMock{}, orders: &OrderRepoMock{}}
	items := &OrderItemRepoMock{}
	tx.customers.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	uc := usecase.NewCheckoutUsecase(f.runner, f.catalog, tx, items, newFormatter(t), f.clock, checkoutConfig(), zap.NewNop())
	id := readyToSubmit(t, f)

	out, err := uc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, out.OrderNumber)
	assert.NotEmpty(t, out.URL)

	tx.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_Submit_NoPaymentStep(t *testing.T) {
	clock := newFakeClock()
	f := newShopFixture(t, 0)
	shop := usecase.NewShopUsecase(f.runner, f.catalog, &seqIDGen{n: 100}, clock, newFormatter(t), usecase.ShopConfig{PaymentStep: false})
	uc := usecase.NewCheckoutUsecase(f.runner, f.catalog, nil, nil, newFormatter(t), clock, checkoutConfig(), zap.NewNop())
	ctx := context.Background()

	sv, err := shop.CreateSession(ctx)
	require.NoError(t, err)
	id := sv.ID
	_, err = shop.AddItem(ctx, id, "d1")
	require.NoError(t, err)
	_, err = shop.FireView(ctx, id, "open_drinks")
	require.NoError(t, err)
	_, err = shop.FireView(ctx, id, "continue")
	require.NoError(t, err)
	_, err = shop.CheckoutNext(ctx, id)
	require.NoError(t, err)
	_, err = shop.UpdateDetails(ctx, id, usecase.DetailsInput{Name: "Bia", Address: "Rua B", Bairro: "Retiro"})
	require.NoError(t, err)

	//DETAILSが最終ステップ
	_, err = shop.CheckoutNext(ctx, id)
	assertHTTPError(t, err, http.StatusConflict, "already at last step")

	out, err := uc.Submit(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, out.Message, "Chave Pix")
}

var _ repo.TransactionManager = (*fakeTx)(nil)
