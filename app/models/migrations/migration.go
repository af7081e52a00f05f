package migrations

import (
	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Review{}, &models.CampaignOverride{}, &models.Cart{}, &models.CartItem{})
}
