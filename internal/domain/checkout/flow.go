package checkout

import (
	"errors"
	"strings"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
)

type Step string

const (
	StepReview  Step = "REVIEW"
	StepDetails Step = "DETAILS"
	StepPayment Step = "PAYMENT"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDetailsIncomplete = errors.New("name and address are required")
	ErrBairroRequired    = errors.New("bairro is required")
	ErrPaymentRequired   = errors.New("payment method is required")
	ErrFirstStep         = errors.New("already at first step")
	ErrLastStep          = errors.New("already at last step")
	ErrNotReady          = errors.New("submit not available at this step")
)

// 配送先と支払い。フローが終わるか放棄されたら捨てる
type Details struct {
	Name    string              `json:"name"`
	Address string              `json:"address"`
	Bairro  string              `json:"bairro"`
	Notes   string              `json:"notes"`
	Payment model.PaymentMethod `json:"payment"`
}

// REVIEW -> DETAILS -> PAYMENT の一本道
type Flow struct {
	Step        Step    `json:"step"`
	Details     Details `json:"details"`
	PaymentStep bool    `json:"payment_step"`
}

func NewFlow(paymentStep bool) Flow {
	return Flow{Step: StepReview, PaymentStep: paymentStep}
}

// Guardは遷移判定に使うカート/地区の状況
type Guard struct {
	Cart         *cart.Cart
	BairroChoice bool // 有効な地区が1件以上あるか
}

func (f *Flow) last() Step {
	if f.PaymentStep {
		return StepPayment
	}
	return StepDetails
}

// Nextはガードを満たすときだけ1段進める。拒否時は状態を変えない
func (f *Flow) Next(g Guard) error {
	switch f.Step {
	case StepReview:
		if g.Cart == nil || g.Cart.IsEmpty() {
			return ErrEmptyCart
		}
		f.Step = StepDetails
		return nil
	case StepDetails:
		if f.Step == f.last() {
			return ErrLastStep
		}
		if err := f.Details.validate(g.BairroChoice); err != nil {
			return err
		}
		f.Step = StepPayment
		return nil
	default:
		return ErrLastStep
	}
}

func (f *Flow) Back() error {
	switch f.Step {
	case StepPayment:
		f.Step = StepDetails
	case StepDetails:
		f.Step = StepReview
	default:
		return ErrFirstStep
	}
	return nil
}

// CanSubmitは送信できる状態か（最終ステップかつ必要項目あり）
func (f *Flow) CanSubmit(g Guard) error {
	if f.Step != f.last() {
		return ErrNotReady
	}
	if g.Cart == nil || g.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	if err := f.Details.validate(g.BairroChoice); err != nil {
		return err
	}
	if f.PaymentStep && f.Details.Payment == "" {
		return ErrPaymentRequired
	}
	return nil
}

// Resetは入力を捨ててREVIEWに戻す
func (f *Flow) Reset() {
	*f = NewFlow(f.PaymentStep)
}

func (d Details) validate(bairroChoice bool) error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Address) == "" {
		return ErrDetailsIncomplete
	}
	if bairroChoice && d.Bairro == "" {
		return ErrBairroRequired
	}
	return nil
}
