package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CampaignOverride struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductID       uint            `gorm:"not null;uniqueIndex" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"-"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"discounted_price"`
	CreatedAt       time.Time       `json:"created_at"`
}
