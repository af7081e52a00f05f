package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepositoryImpl interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	SetCampaignPrice(ctx context.Context, id uint, price decimal.Decimal) error
}

type productRepository struct {
	conn
}

func preloadReviews(db *gorm.DB) *gorm.DB {
	return db.Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("reviews.id ASC")
	})
}

// GetProducts returns the whole catalog in id order with reviews attached.
func (p *productRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := p.read(ctx, func(db *gorm.DB) error {
		return preloadReviews(db).Order("products.id ASC").Find(&products).Error
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.read(ctx, func(db *gorm.DB) error {
		return preloadReviews(db).Where("id = ?", id).First(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.read(ctx, func(db *gorm.DB) error {
		return preloadReviews(db).Where("slug = ?", slug).First(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := p.read(ctx, func(db *gorm.DB) error {
		return db.Where("id IN ?", ids).Order("id ASC").Find(&products).Error
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetByIDForUpdate locks the product row until the surrounding transaction ends.
func (p *productRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.read(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := p.read(ctx, func(db *gorm.DB) error {
		return db.Model(&models.Product{}).
			Where("category <> ?", "").
			Distinct("category").
			Order("category ASC").
			Pluck("category", &categories).Error
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (p *productRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := p.read(ctx, func(db *gorm.DB) error {
		return db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.write(ctx, func(db *gorm.DB) error {
		return db.Create(product).Error
	})
}

func (p *productRepository) SetCampaignPrice(ctx context.Context, id uint, price decimal.Decimal) error {
	return p.write(ctx, func(db *gorm.DB) error {
		result := db.Model(&models.Product{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"is_campaign":    true,
				"campaign_price": decimal.NewNullDecimal(price),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
