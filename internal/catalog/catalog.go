package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/domain/model"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// YAML上の商品。価格は文字列で持ってdecimalに変換する
type productDoc struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
	Category    string   `yaml:"category"`
	SortOrder   int      `yaml:"sort_order"`
}

type bairroDoc struct {
	ID        int64  `yaml:"id"`
	Name      string `yaml:"name"`
	Fee       string `yaml:"fee"`
	SortOrder int    `yaml:"sort_order"`
}

type document struct {
	Products []productDoc `yaml:"products"`
	Bairros  []bairroDoc  `yaml:"bairros"`
}

// 同梱カタログ
type Data struct {
	Products []model.Product
	Bairros  []model.Bairro
}

// Fallbackは同梱のカタログを返す。呼ぶたびに新しいスライス
func Fallback() Data {
	d, err := Parse(fallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded fallback is invalid: %v", err))
	}
	return d
}

// ParseはYAMLのカタログを読み込む
func Parse(raw []byte) (Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Data{}, fmt.Errorf("decode catalog: %w", err)
	}

	out := Data{
		Products: make([]model.Product, 0, len(doc.Products)),
		Bairros:  make([]model.Bairro, 0, len(doc.Bairros)),
	}
	for _, p := range doc.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return Data{}, fmt.Errorf("product %s: price: %w", p.ID, err)
		}
		cat := model.Category(p.Category)
		if !cat.Valid() {
			return Data{}, fmt.Errorf("product %s: invalid category %q", p.ID, p.Category)
		}
		out.Products = append(out.Products, model.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Image:       p.Image,
			Tags:        p.Tags,
			Category:    cat,
			Available:   true,
			SortOrder:   p.SortOrder,
		})
	}
	for _, b := range doc.Bairros {
		fee, err := decimal.NewFromString(b.Fee)
		if err != nil {
			return Data{}, fmt.Errorf("bairro %s: fee: %w", b.Name, err)
		}
		out.Bairros = append(out.Bairros, model.Bairro{
			ID:        b.ID,
			Name:      b.Name,
			Fee:       fee,
			Active:    true,
			SortOrder: b.SortOrder,
		})
	}

	SortProducts(out.Products)
	return out, nil
}

var categoryRank = map[model.Category]int{
	model.CategoryBurger: 0,
	model.CategoryDrink:  1,
}

// SortProductsはカタログ順（カテゴリ→sort_order）に並べる
func SortProducts(ps []model.Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		ri, rj := categoryRank[ps[i].Category], categoryRank[ps[j].Category]
		if ri != rj {
			return ri < rj
		}
		return ps[i].SortOrder < ps[j].SortOrder
	})
}

func Filter(ps []model.Product, c model.Category) []model.Product {
	out := make([]model.Product, 0, len(ps))
	for _, p := range ps {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}
