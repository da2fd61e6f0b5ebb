package model

import "time"

// 注文時の顧客情報（注文ごとに1件）
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	Bairro    *string   `gorm:"type:varchar(255)" json:"bairro"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
