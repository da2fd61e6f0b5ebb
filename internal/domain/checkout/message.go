package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
	"storefront/internal/domain/pricing"
)

var paymentLabels = map[model.PaymentMethod]string{
	model.PaymentPix:      "Pix",
	model.PaymentCartao:   "Cartão na entrega",
	model.PaymentDinheiro: "Dinheiro na entrega",
}

// 未選択や不明な値は空文字
func PaymentLabel(m model.PaymentMethod) string {
	return paymentLabels[m]
}

type Order struct {
	StoreName   string
	OrderNumber *int64
	Items       []cart.Item
	Details     Details
	Quote       pricing.Quote
	PixKey      string
}

// Composeは送信用の注文メッセージを組み立てる
func Compose(o Order, f *pricing.Formatter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Olá %s! 🍔 Novo pedido:\n", o.StoreName)
	if o.OrderNumber != nil {
		fmt.Fprintf(&b, "*PEDIDO Nº %d*\n", *o.OrderNumber)
	}

	b.WriteString("\n*ITENS:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %dx %s (%s)\n", it.Quantity, it.Name, f.Format(pricing.LineTotal(it)))
		if it.Notes != "" && it.Category.Noteworthy() {
			fmt.Fprintf(&b, "   Obs: %s\n", it.Notes)
		}
	}

	b.WriteString("\n")
	if o.Quote.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "Subtotal: %s + Entrega: %s\n",
			f.Format(o.Quote.Subtotal), f.Format(o.Quote.DeliveryFee))
	}
	fmt.Fprintf(&b, "*TOTAL: %s*\n", f.Format(o.Quote.GrandTotal))

	fmt.Fprintf(&b, "\n*PAGAMENTO:* %s\n", PaymentLabel(o.Details.Payment))
	if o.Details.Payment == model.PaymentPix && o.PixKey != "" {
		fmt.Fprintf(&b, "Chave Pix: %s\n", o.PixKey)
	}

	b.WriteString("\n*CLIENTE:*\n")
	b.WriteString(o.Details.Name + "\n")
	b.WriteString(o.Details.Address + "\n")
	if o.Details.Bairro != "" {
		fmt.Fprintf(&b, "Bairro: %s\n", o.Details.Bairro)
	}
	if o.Details.Notes != "" {
		fmt.Fprintf(&b, "Observação: %s\n", o.Details.Notes)
	}

	return strings.TrimSpace(b.String())
}

// EncodeURIComponentはスペースを%20にする（+は使わない）
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DeepLinkは https://{domain}/{phone}?text=... を返す
func DeepLink(domain, phone, message string) string {
	return "https://" + domain + "/" + phone + "?text=" + EncodeURIComponent(message)
}
