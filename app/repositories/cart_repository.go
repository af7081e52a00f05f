package repositories

import (
	"context"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepositoryImpl interface {
	Ensure(ctx context.Context, cartID string) error
	GetByID(ctx context.Context, cartID string) (*models.Cart, error)
	LockForUpdate(ctx context.Context, cartID string) (*models.Cart, error)
	BumpVersion(ctx context.Context, cartID string) error
}

type cartRepository struct {
	conn
}

// Ensure creates the cart row if it does not exist yet.
func (r *cartRepository) Ensure(ctx context.Context, cartID string) error {
	return r.write(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Cart{ID: cartID}).Error
	})
}

func (r *cartRepository) GetByID(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", cartID).First(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockForUpdate serializes writers of one cart for the rest of the transaction.
func (r *cartRepository) LockForUpdate(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", cartID).First(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) BumpVersion(ctx context.Context, cartID string) error {
	return r.write(ctx, func(db *gorm.DB) error {
		return db.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]interface{}{
				"version":    gorm.Expr("version + ?", 1),
				"updated_at": time.Now(),
			}).Error
	})
}
