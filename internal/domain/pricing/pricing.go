package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
)

// 見積もり（表示前なので丸めない）
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

func LineTotal(it cart.Item) decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Subtotalは解決済みの行だけを合計する
func Subtotal(items []cart.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it))
	}
	return sum
}

// DeliveryFeeは有効な地区から名前で引く。
// 未選択・見つからない・無効の場合は0。大文字小文字は区別する
func DeliveryFee(bairro string, active []model.Bairro) decimal.Decimal {
	if bairro == "" {
		return decimal.Zero
	}
	for _, b := range active {
		if b.Active && b.Name == bairro {
			return b.Fee
		}
	}
	return decimal.Zero
}

func GrandTotal(subtotal, fee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(fee)
}

func NewQuote(items []cart.Item, bairro string, active []model.Bairro) Quote {
	sub := Subtotal(items)
	fee := DeliveryFee(bairro, active)
	return Quote{
		Subtotal:    sub,
		DeliveryFee: fee,
		GrandTotal:  GrandTotal(sub, fee),
	}
}
