package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/checkout"
	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/session"
	"storefront/internal/domain/view"
)

var errNotInCart = errors.New("cart view is not open")

type ShopConfig struct {
	ExitDelay   time.Duration
	PaymentStep bool
}

type ItemView struct {
	cart.Item
	LineTotal     decimal.Decimal `json:"line_total"`
	LineTotalText string          `json:"line_total_text"`
}

type TotalsView struct {
	pricing.Quote
	SubtotalText    string `json:"subtotal_text"`
	DeliveryFeeText string `json:"delivery_fee_text"`
	GrandTotalText  string `json:"grand_total_text"`
}

type ViewState struct {
	State   view.State `json:"state"`
	Closing bool       `json:"closing"`
}

// 画面に返すセッションの形
type SessionView struct {
	ID         string        `json:"id"`
	View       ViewState     `json:"view"`
	Items      []ItemView    `json:"items"`
	TotalItems int           `json:"total_items"`
	Orphans    []string      `json:"orphans,omitempty"`
	Totals     TotalsView    `json:"totals"`
	Checkout   checkout.Flow `json:"checkout"`
}

type DetailsInput struct {
	Name    string
	Address string
	Bairro  string
	Notes   string
	Payment string
}

type ShopUsecase struct {
	runner  *SessionRunner
	catalog CatalogReader
	idGen   IDGenerator
	clock   Clock
	money   *pricing.Formatter
	cfg     ShopConfig
}

// DI
func NewShopUsecase(
	runner *SessionRunner,
	catalog CatalogReader,
	idGen IDGenerator,
	clock Clock,
	money *pricing.Formatter,
	cfg ShopConfig,
) *ShopUsecase {
	return &ShopUsecase{
		runner:  runner,
		catalog: catalog,
		idGen:   idGen,
		clock:   clock,
		money:   money,
		cfg:     cfg,
	}
}

func (u *ShopUsecase) CreateSession(ctx context.Context) (SessionView, error) {
	s := session.New(u.idGen.NewID(), u.cfg.PaymentStep, u.clock.Now())
	if err := u.runner.Create(ctx, s); err != nil {
		return SessionView{}, err
	}
	return u.present(s), nil
}

func (u *ShopUsecase) GetSession(ctx context.Context, id string) (SessionView, error) {
	s, err := u.runner.Load(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return u.present(s), nil
}

// EndSessionは買い物をやめたときにセッションを捨てる
func (u *ShopUsecase) EndSession(ctx context.Context, id string) error {
	return u.runner.Delete(ctx, id)
}

// AddItemはカタログにある商品だけ受け付ける
func (u *ShopUsecase) AddItem(ctx context.Context, id string, productID string) (SessionView, error) {
	return u.update(ctx, id, func(s *session.Session) error {
		if _, ok := u.catalog.FindProduct(productID); !ok {
			return cart.ErrUnknownProduct
		}
		s.Cart.AddNewItem(productID)
		return nil
	})
}

// UpdateQuantityは減らす方向ならカタログに無い商品でも通す
func (u *ShopUsecase) UpdateQuantity(ctx context.Context, id string, productID string, delta int) (SessionView, error) {
	if delta == 0 {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "delta must not be 0")
	}
	return u.update(ctx, id, func(s *session.Session) error {
		if delta > 0 {
			if _, ok := u.catalog.FindProduct(productID); !ok {
				return cart.ErrUnknownProduct
			}
		}
		s.Cart.UpdateQuantity(productID, delta)
		return nil
	})
}

func (u *ShopUsecase) UpdateNotes(ctx context.Context, id string, productID string, notes string) (SessionView, error) {
	if len(notes) > 500 {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "notes too long")
	}
	return u.update(ctx, id, func(s *session.Session) error {
		s.Cart.UpdateNotes(productID, notes)
		return nil
	})
}

func (u *ShopUsecase) FireView(ctx context.Context, id string, event string) (SessionView, error) {
	return u.update(ctx, id, func(s *session.Session) error {
		return s.View.Fire(view.Event(event), s.Cart.TotalItemCount(), u.clock.Now(), u.cfg.ExitDelay)
	})
}

func (u *ShopUsecase) CheckoutNext(ctx context.Context, id string) (SessionView, error) {
	return u.update(ctx, id, func(s *session.Session) error {
		if err := requireCart(s); err != nil {
			return err
		}
		return s.Checkout.Next(u.guard(s))
	})
}

func (u *ShopUsecase) CheckoutBack(ctx context.Context, id string) (SessionView, error) {
	return u.update(ctx, id, func(s *session.Session) error {
		if err := requireCart(s); err != nil {
			return err
		}
		return s.Checkout.Back()
	})
}

func (u *ShopUsecase) UpdateDetails(ctx context.Context, id string, in DetailsInput) (SessionView, error) {
	payment := model.PaymentMethod(strings.TrimSpace(in.Payment))
	if payment != "" && !payment.Valid() {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "invalid payment")
	}
	if in.Bairro != "" && !bairroOffered(in.Bairro, u.catalog.ActiveBairros()) {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "unknown bairro")
	}

	return u.update(ctx, id, func(s *session.Session) error {
		if err := requireCart(s); err != nil {
			return err
		}
		s.Checkout.Details = checkout.Details{
			Name:    in.Name,
			Address: in.Address,
			Bairro:  in.Bairro,
			Notes:   in.Notes,
			Payment: payment,
		}
		return nil
	})
}

func (u *ShopUsecase) update(ctx context.Context, id string, fn func(s *session.Session) error) (SessionView, error) {
	s, err := u.runner.Update(ctx, id, fn)
	if err != nil {
		return SessionView{}, toHTTPError(err)
	}
	return u.present(s), nil
}

func (u *ShopUsecase) guard(s *session.Session) checkout.Guard {
	return checkout.Guard{
		Cart:         &s.Cart,
		BairroChoice: len(u.catalog.ActiveBairros()) > 0,
	}
}

func (u *ShopUsecase) present(s session.Session) SessionView {
	products := u.catalog.Products()
	items := s.Cart.Items(products)
	quote := pricing.NewQuote(items, s.Checkout.Details.Bairro, u.catalog.ActiveBairros())

	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		lt := pricing.LineTotal(it)
		views = append(views, ItemView{Item: it, LineTotal: lt, LineTotalText: u.money.Format(lt)})
	}

	state := s.View.State
	if state == "" {
		state = view.StateHome
	}

	return SessionView{
		ID:         s.ID,
		View:       ViewState{State: state, Closing: s.View.Closing()},
		Items:      views,
		TotalItems: s.Cart.TotalItemCount(),
		Orphans:    s.Cart.Orphans(products),
		Totals: TotalsView{
			Quote:           quote,
			SubtotalText:    u.money.Format(quote.Subtotal),
			DeliveryFeeText: u.money.Format(quote.DeliveryFee),
			GrandTotalText:  u.money.Format(quote.GrandTotal),
		},
		Checkout: s.Checkout,
	}
}

// カートを開いていて、閉じている途中でもないこと
func requireCart(s *session.Session) error {
	if s.View.Closing() {
		return view.ErrClosing
	}
	if s.View.State != view.StateCart {
		return errNotInCart
	}
	return nil
}

func bairroOffered(name string, active []model.Bairro) bool {
	for _, b := range active {
		if b.Name == name {
			return true
		}
	}
	return false
}

// ドメインのエラーをHTTPErrorにする
func toHTTPError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		return NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, view.ErrUnknownEvent):
		return NewHTTPError(http.StatusBadRequest, "unknown event")
	case errors.Is(err, view.ErrClosing),
		errors.Is(err, view.ErrEmptyCart),
		errors.Is(err, view.ErrInvalidTransition),
		errors.Is(err, errNotInCart),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrDetailsIncomplete),
		errors.Is(err, checkout.ErrBairroRequired),
		errors.Is(err, checkout.ErrPaymentRequired),
		errors.Is(err, checkout.ErrFirstStep),
		errors.Is(err, checkout.ErrLastStep),
		errors.Is(err, checkout.ErrNotReady):
		return NewHTTPError(http.StatusConflict, err.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
