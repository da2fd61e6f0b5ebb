package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func items() []cart.Item {
	return []cart.Item{
		{Product: model.Product{ID: "b1", Price: dec("189"), Category: model.CategoryBurger}, Quantity: 2},
		{Product: model.Product{ID: "b5", Price: dec("219"), Category: model.CategoryBurger}, Quantity: 1},
	}
}

func bairros() []model.Bairro {
	return []model.Bairro{
		{ID: 1, Name: "Aterrado", Fee: dec("3"), Active: true},
		{ID: 2, Name: "Centro", Fee: dec("3"), Active: true},
		{ID: 3, Name: "Volta Grande", Fee: dec("10"), Active: true},
	}
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(items(), "Centro", bairros())

	assert.True(t, dec("597").Equal(q.Subtotal))
	assert.True(t, dec("3").Equal(q.DeliveryFee))
	assert.True(t, dec("600").Equal(q.GrandTotal))
}

func TestDeliveryFee(t *testing.T) {
	cases := []struct {
		name   string
		bairro string
		want   string
	}{
		{"empty", "", "0"},
		{"unknown", "Marte", "0"},
		{"case sensitive", "centro", "0"},
		{"found", "Volta Grande", "10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, dec(tc.want).Equal(DeliveryFee(tc.bairro, bairros())))
		})
	}
}

func TestNewQuote_GrandTotalIsSubtotalPlusFee(t *testing.T) {
	menu := []model.Product{
		{ID: "b1", Price: dec("189")},
		{ID: "b5", Price: dec("219")},
		{ID: "d1", Price: dec("8.9")},
		{ID: "d4", Price: dec("12.5")},
		{ID: "b6", Price: dec("0.1")},
	}
	areas := append(bairros(), model.Bairro{ID: 9, Name: "Inativo", Fee: dec("7"), Active: false})

	selections := []struct {
		bairro  string
		wantFee string
	}{
		{"", "0"},
		{"Volta Grande", "10"},
		{"Marte", "0"},
		{"Inativo", "0"},
	}

	for n := 0; n <= len(menu); n++ {
		var its []cart.Item
		want := decimal.Zero
		for i := 0; i < n; i++ {
			qty := i + 1
			its = append(its, cart.Item{Product: menu[i], Quantity: qty})
			want = want.Add(menu[i].Price.Mul(decimal.NewFromInt(int64(qty))))
		}

		for _, sel := range selections {
			q := NewQuote(its, sel.bairro, areas)

			assert.True(t, want.Equal(q.Subtotal), "n=%d bairro=%q subtotal=%s", n, sel.bairro, q.Subtotal)
			assert.True(t, dec(sel.wantFee).Equal(q.DeliveryFee), "n=%d bairro=%q fee=%s", n, sel.bairro, q.DeliveryFee)
			assert.True(t, q.Subtotal.Add(q.DeliveryFee).Equal(q.GrandTotal), "n=%d bairro=%q", n, sel.bairro)
		}
	}
}

func TestSubtotal_Exact(t *testing.T) {
	its := []cart.Item{
		{Product: model.Product{Price: dec("0.1")}, Quantity: 1},
		{Product: model.Product{Price: dec("0.2")}, Quantity: 1},
	}
	assert.Equal(t, "0.3", Subtotal(its).String())
	assert.True(t, Subtotal(nil).IsZero())
}

func TestFormatter_PtBR(t *testing.T) {
	f, err := NewFormatter("pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "R$ 597,00", f.Format(dec("597")))
	assert.Equal(t, "R$ 8,90", f.Format(dec("8.9")))
	assert.Equal(t, "R$ 1,01", f.Format(dec("1.005")))
}

func TestNewFormatter_InvalidLocale(t *testing.T) {
	_, err := NewFormatter("??")
	assert.Error(t, err)
}
