package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentPix      PaymentMethod = "pix"
	PaymentCartao   PaymentMethod = "cartao"
	PaymentDinheiro PaymentMethod = "dinheiro"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPix, PaymentCartao, PaymentDinheiro:
		return true
	}
	return false
}

// OrderNumberはDBの連番で採番される
type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64           `gorm:"not null;index" json:"customer_id"`
	OrderNumber   int64           `gorm:"autoIncrement;uniqueIndex;not null" json:"order_number"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	DeliveryFee   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"delivery_fee"`
	Total         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20)" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
