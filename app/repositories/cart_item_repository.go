package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

type CartItemRepositoryImpl interface {
	Add(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, cartID string, id uint) (int64, error)
	GetByID(ctx context.Context, cartID string, id uint) (*models.CartItem, error)
	GetByCartID(ctx context.Context, cartID string) ([]models.CartItem, error)
	GetCartAndProduct(ctx context.Context, cartID string, productID uint) (*models.CartItem, error)
	GetCartIDsByProduct(ctx context.Context, productID uint) ([]string, error)
	CountQuantity(ctx context.Context, cartID string) (int, error)
	ClearCartItems(ctx context.Context, cartID string) (int64, error)
}

type cartItemRepository struct {
	conn
}

func (r *cartItemRepository) Add(ctx context.Context, item *models.CartItem) error {
	return r.write(ctx, func(db *gorm.DB) error {
		return db.Omit("Product").Create(item).Error
	})
}

func (r *cartItemRepository) Update(ctx context.Context, item *models.CartItem) error {
	return r.write(ctx, func(db *gorm.DB) error {
		return db.Omit("Product").Save(item).Error
	})
}

// Delete removes the line if present and reports how many rows went away.
func (r *cartItemRepository) Delete(ctx context.Context, cartID string, id uint) (int64, error) {
	var affected int64
	err := r.write(ctx, func(db *gorm.DB) error {
		result := db.Where("cart_id = ? AND id = ?", cartID, id).Delete(&models.CartItem{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *cartItemRepository) GetByID(ctx context.Context, cartID string, id uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Where("cart_id = ? AND id = ?", cartID, id).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) GetByCartID(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartItemRepository) GetCartAndProduct(ctx context.Context, cartID string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) GetCartIDsByProduct(ctx context.Context, productID uint) ([]string, error) {
	var cartIDs []string
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Model(&models.CartItem{}).
			Where("product_id = ?", productID).
			Distinct("cart_id").
			Order("cart_id ASC").
			Pluck("cart_id", &cartIDs).Error
	})
	if err != nil {
		return nil, err
	}
	return cartIDs, nil
}

// CountQuantity sums the quantities of all lines in the cart.
func (r *cartItemRepository) CountQuantity(ctx context.Context, cartID string) (int, error) {
	var total int64
	err := r.read(ctx, func(db *gorm.DB) error {
		return db.Model(&models.CartItem{}).
			Select("COALESCE(SUM(quantity), 0)").
			Where("cart_id = ?", cartID).
			Scan(&total).Error
	})
	return int(total), err
}

// ClearCartItems deletes every line of the cart with one statement.
func (r *cartItemRepository) ClearCartItems(ctx context.Context, cartID string) (int64, error) {
	var affected int64
	err := r.write(ctx, func(db *gorm.DB) error {
		result := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}
