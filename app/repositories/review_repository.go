package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

type ReviewRepositoryImpl interface {
	Add(ctx context.Context, review *models.Review) error
	GetByProductID(ctx context.Context, productID uint) ([]models.Review, error)
}

type reviewRepository struct {
	conn
}

// Add appends a review as its own row, so concurrent submissions never
// overwrite each other.
func (r *reviewRepository) Add(ctx context.Context, review *models.Review) error {
	return r.write(ctx, func(db *gorm.DB) error {
		return db.Create(review).Error
	})
}

func (r *reviewRepository) GetByProductID(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Where("product_id = ?", productID).Order("id ASC").Find(&reviews).Error
	})
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
