package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. IsCampaign and CampaignPrice mirror the
// product's CampaignOverride row and are only written by the campaign service.
type Product struct {
	ID            uint                `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title         string              `gorm:"size:255;not null" json:"title"`
	Slug          string              `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description   string              `gorm:"type:text" json:"description"`
	Category      string              `gorm:"size:100;index" json:"category"`
	ImageURL      string              `gorm:"size:512" json:"image_url"`
	BasePrice     decimal.Decimal     `gorm:"type:decimal(16,2);not null" json:"base_price"`
	IsCampaign    bool                `gorm:"not null;default:false" json:"is_campaign"`
	CampaignPrice decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"campaign_price"`
	Reviews       []Review            `gorm:"foreignKey:ProductID" json:"reviews"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
