package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 配達エリア（bairro）と配達料
type Bairro struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Fee       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"fee"`
	Active    bool            `gorm:"not null;index" json:"active"`
	SortOrder int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
