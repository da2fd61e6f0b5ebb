package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/model"
)

func TestFallback(t *testing.T) {
	d := Fallback()

	require.Len(t, d.Products, 12)
	require.Len(t, d.Bairros, 23)

	assert.Equal(t, "b1", d.Products[0].ID)
	assert.True(t, decimal.NewFromInt(189).Equal(d.Products[0].Price))
	assert.Equal(t, []string{"clássica", "tradicional"}, []string(d.Products[0].Tags))
	assert.Equal(t, "d1", d.Products[6].ID)
	assert.True(t, decimal.RequireFromString("8.9").Equal(d.Products[6].Price))

	assert.Len(t, Filter(d.Products, model.CategoryBurger), 6)
	assert.Len(t, Filter(d.Products, model.CategoryDrink), 6)

	last := d.Bairros[len(d.Bairros)-1]
	assert.Equal(t, "Volta Grande", last.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(last.Fee))
	assert.True(t, last.Active)
}

func TestFallback_ReturnsFreshSlices(t *testing.T) {
	a := Fallback()
	a.Products[0].Name = "changed"

	assert.Equal(t, "Clássica Americana", Fallback().Products[0].Name)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("products:\n  - {id: x, price: abc, category: burger}\n"))
	assert.ErrorContains(t, err, "product x: price")

	_, err = Parse([]byte("products:\n  - {id: x, price: \"1\", category: dessert}\n"))
	assert.ErrorContains(t, err, "invalid category")

	_, err = Parse([]byte("products: ["))
	assert.Error(t, err)
}

func TestSortProducts(t *testing.T) {
	ps := []model.Product{
		{ID: "d1", Category: model.CategoryDrink, SortOrder: 0},
		{ID: "b2", Category: model.CategoryBurger, SortOrder: 1},
		{ID: "b1", Category: model.CategoryBurger, SortOrder: 0},
	}

	SortProducts(ps)

	assert.Equal(t, []string{"b1", "b2", "d1"}, []string{ps[0].ID, ps[1].ID, ps[2].ID})
}
