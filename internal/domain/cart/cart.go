package cart

import (
	"errors"
	"sort"

	"storefront/internal/domain/model"
)

// カタログに無い商品を追加しようとした
var ErrUnknownProduct = errors.New("unknown product")

// カートの1行。存在する間は常に Quantity >= 1
type Entry struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// 商品ID -> Entry。ゼロ値のまま使える
type Cart struct {
	Entries map[string]Entry `json:"entries"`
}

// カタログと突き合わせた行
type Item struct {
	model.Product
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

func (c *Cart) init() {
	if c.Entries == nil {
		c.Entries = make(map[string]Entry)
	}
}

func (c *Cart) Quantity(productID string) int {
	return c.Entries[productID].Quantity
}

// UpdateQuantityは数量にdeltaを足す。0以下になったら行ごと(メモも)消す。
func (c *Cart) UpdateQuantity(productID string, delta int) {
	c.init()

	entry := c.Entries[productID]
	next := entry.Quantity + delta
	if next <= 0 {
		delete(c.Entries, productID)
		return
	}
	c.Entries[productID] = Entry{Quantity: next, Notes: entry.Notes}
}

// AddNewItemは既存行なら+1、無ければメモ空で1個から。
func (c *Cart) AddNewItem(productID string) {
	c.init()

	if entry, ok := c.Entries[productID]; ok && entry.Quantity > 0 {
		c.UpdateQuantity(productID, 1)
		return
	}
	c.Entries[productID] = Entry{Quantity: 1}
}

// UpdateNotesはメモだけ差し替える。行が無ければ何もしない
func (c *Cart) UpdateNotes(productID string, notes string) {
	entry, ok := c.Entries[productID]
	if !ok {
		return
	}
	entry.Notes = notes
	c.Entries[productID] = entry
}

// TotalItemCountはカート基準。カタログから消えた商品の分も数える
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, e := range c.Entries {
		total += e.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

func (c *Cart) Clear() {
	c.Entries = make(map[string]Entry)
}

// Itemsはカタログ順で行を返す。
// カタログに無いIDは飛ばすだけで、カートからは消さない。
func (c *Cart) Items(products []model.Product) []Item {
	items := make([]Item, 0, len(c.Entries))
	for _, p := range products {
		entry, ok := c.Entries[p.ID]
		if !ok {
			continue
		}
		items = append(items, Item{
			Product:  p,
			Quantity: entry.Quantity,
			Notes:    entry.Notes,
		})
	}
	return items
}

// Orphansはカタログで解決できないIDの一覧（ID順）
func (c *Cart) Orphans(products []model.Product) []string {
	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	var ids []string
	for id := range c.Entries {
		if _, ok := known[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
