package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

type CampaignRepositoryImpl interface {
	Create(ctx context.Context, override *models.CampaignOverride) error
	GetAll(ctx context.Context) ([]models.CampaignOverride, error)
	GetByProductID(ctx context.Context, productID uint) (*models.CampaignOverride, error)
}

type campaignRepository struct {
	conn
}

func (r *campaignRepository) Create(ctx context.Context, override *models.CampaignOverride) error {
	return r.write(ctx, func(db *gorm.DB) error {
		return db.Omit("Product").Create(override).Error
	})
}

// GetAll returns every override joined with its product, oldest first.
func (r *campaignRepository) GetAll(ctx context.Context) ([]models.CampaignOverride, error) {
	var overrides []models.CampaignOverride
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.InnerJoins("Product").
			Order("campaign_overrides.created_at ASC").
			Order("campaign_overrides.id ASC").
			Find(&overrides).Error
	})
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *campaignRepository) GetByProductID(ctx context.Context, productID uint) (*models.CampaignOverride, error) {
	var override models.CampaignOverride
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Where("product_id = ?", productID).First(&override).Error
	})
	if err != nil {
		return nil, err
	}
	return &override, nil
}
