package usecase

import (
	"context"
	"net/http"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/session"
	repo "storefront/internal/repository"
)

type CheckoutConfig struct {
	StoreName       string
	WhatsAppNumber  string
	MessagingDomain string
	PixKey          string
	ClearCart       bool
}

type SubmitOutput struct {
	URL         string `json:"url"`
	Message     string `json:"message"`
	OrderNumber *int64 `json:"order_number"`
}

type CheckoutUsecase struct {
	runner     *SessionRunner
	catalog    CatalogReader
	tx         repo.TransactionManager  // nilなら保存しない
	orderItems repo.OrderItemRepository // nilなら保存しない
	money      *pricing.Formatter
	clock      Clock
	cfg        CheckoutConfig
	log        *zap.Logger
}

// DI
func NewCheckoutUsecase(
	runner *SessionRunner,
	catalog CatalogReader,
	tx repo.TransactionManager,
	orderItems repo.OrderItemRepository,
	money *pricing.Formatter,
	clock Clock,
	cfg CheckoutConfig,
	log *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		runner:     runner,
		catalog:    catalog,
		tx:         tx,
		orderItems: orderItems,
		money:      money,
		clock:      clock,
		cfg:        cfg,
		log:        log,
	}
}

// Submitは注文メッセージとディープリンクを作る。
// 保存に失敗してもリンクは返す（番号なし）
func (u *CheckoutUsecase) Submit(ctx context.Context, id string) (SubmitOutput, error) {
	var out SubmitOutput

	_, err := u.runner.Update(ctx, id, func(s *session.Session) error {
		if err := requireCart(s); err != nil {
			return err
		}
		bairros := u.catalog.ActiveBairros()
		if err := s.Checkout.CanSubmit(checkout.Guard{Cart: &s.Cart, BairroChoice: len(bairros) > 0}); err != nil {
			return err
		}

		items := s.Cart.Items(u.catalog.Products())
		if len(items) == 0 {
			return checkout.ErrEmptyCart
		}
		details := s.Checkout.Details
		quote := pricing.NewQuote(items, details.Bairro, bairros)

		number := u.saveOrder(ctx, items, details, quote)

		msg := checkout.Compose(checkout.Order{
			StoreName:   u.cfg.StoreName,
			OrderNumber: number,
			Items:       items,
			Details:     details,
			Quote:       quote,
			PixKey:      u.cfg.PixKey,
		}, u.money)

		out = SubmitOutput{
			URL:         checkout.DeepLink(u.cfg.MessagingDomain, u.cfg.WhatsAppNumber, msg),
			Message:     msg,
			OrderNumber: number,
		}
		s.Last = &session.Submission{
			URL:         out.URL,
			Message:     out.Message,
			OrderNumber: number,
			SubmittedAt: u.clock.Now(),
		}

		//入力はここで破棄。カートは設定次第
		s.Checkout.Reset()
		if u.cfg.ClearCart {
			s.Cart.Clear()
		}
		return nil
	})
	if err != nil {
		return SubmitOutput{}, toHTTPError(err)
	}
	return out, nil
}

// QRCodeは直近に送信したリンクのPNG
func (u *CheckoutUsecase) QRCode(ctx context.Context, id string) ([]byte, error) {
	s, err := u.runner.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Last == nil {
		return nil, NewHTTPError(http.StatusNotFound, "no submitted order")
	}

	png, err := qrcode.Encode(s.Last.URL, qrcode.Medium, 320)
	if err != nil {
		u.log.Error("encode qrcode failed", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return png, nil
}

// saveOrderは customer → order をTxで保存し、その後 order_items を保存する。
// 明細の失敗はログだけ（顧客・注文は残る）
func (u *CheckoutUsecase) saveOrder(ctx context.Context, items []cart.Item, d checkout.Details, q pricing.Quote) *int64 {
	if u.tx == nil {
		return nil
	}

	var order model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer := &model.Customer{
			Name:    d.Name,
			Address: d.Address,
		}
		if d.Bairro != "" {
			b := d.Bairro
			customer.Bairro = &b
		}
		if err := r.Customers().Create(ctx, customer); err != nil {
			return err
		}

		order = model.Order{
			CustomerID:    customer.ID,
			Subtotal:      q.Subtotal,
			DeliveryFee:   q.DeliveryFee,
			Total:         q.GrandTotal,
			PaymentMethod: d.Payment,
			Notes:         d.Notes,
		}
		return r.Orders().Create(ctx, &order)
	})
	if err != nil {
		u.log.Error("save order failed", zap.Error(err))
		return nil
	}

	//スナップショット
	rows := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.OrderItem{
			ProductID:   it.ID,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			Notes:       it.Notes,
		})
	}
	if u.orderItems != nil {
		if err := u.orderItems.CreateBulk(ctx, order.ID, rows); err != nil {
			u.log.Error("save order items failed",
				zap.Int64("order_id", order.ID),
				zap.Int64("order_number", order.OrderNumber),
				zap.Error(err),
			)
		}
	}

	number := order.OrderNumber
	return &number
}
