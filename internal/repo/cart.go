package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shofy/internal/models"
)

func (r *GormRepo) ListCartItems(ctx context.Context) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) FindCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart increments the quantity of the (user, product) row or inserts it.
// The unique index on (user_id, product_id) turns a racing insert into a
// no-op, after which the increment is applied to the winner's row. On return
// item holds the stored row.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		increment := func() (bool, error) {
			res := tx.Model(&models.CartItem{}).
				Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
			return res.RowsAffected > 0, res.Error
		}

		updated, err := increment()
		if err != nil {
			return err
		}

		if !updated {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
				DoNothing: true,
			}).Create(item)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				created = true
				return nil
			}
			if updated, err = increment(); err != nil {
				return err
			}
			if !updated {
				return gorm.ErrRecordNotFound
			}
		}

		return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(item).Error
	})
	return created, err
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.updateFields(ctx, item, "quantity")
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.deleteReturning(ctx, &item, id); err != nil {
		return nil, err
	}
	return &item, nil
}
