package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func init() {
	// 金額はJSONでは数値として返す
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryBurger Category = "burger"
	CategoryDrink  Category = "drink"
)

func (c Category) Valid() bool {
	return c == CategoryBurger || c == CategoryDrink
}

// Noteworthyは調理メモをメッセージに載せるカテゴリか。
// ドリンクにはメモを付けない。
func (c Category) Noteworthy() bool {
	return c != CategoryDrink
}

// 商品（バーガー・ドリンク共通）
type Product struct {
	ID          string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image       string          `gorm:"type:text" json:"image"`
	Tags        pq.StringArray  `gorm:"type:text[]" json:"tags"`
	Category    Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	Available   bool            `gorm:"not null;index" json:"available"`
	SortOrder   int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
