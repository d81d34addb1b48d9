package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shofy/internal/models"
)

func (r *GormRepo) ListStores(ctx context.Context) ([]models.Store, error) {
	stores := make([]models.Store, 0)
	if err := r.DB.WithContext(ctx).Order("user_id ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// GetStore looks a store up by its owner's id, which is also its primary key.
func (r *GormRepo) GetStore(ctx context.Context, userID uint) (*models.Store, error) {
	var store models.Store
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// CreateStore inserts store unless its owner already has one. In that case
// store is overwritten with the existing row and created is false.
func (r *GormRepo) CreateStore(ctx context.Context, store *models.Store) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
			Create(store)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			created = true
			return nil
		}
		return tx.Where("user_id = ?", store.UserID).First(store).Error
	})
	return created, err
}

func (r *GormRepo) UpdateStore(ctx context.Context, store *models.Store) error {
	return r.updateFields(ctx, store, "name", "location")
}

func (r *GormRepo) DeleteStore(ctx context.Context, userID uint) (*models.Store, error) {
	var store models.Store
	if err := r.deleteReturning(ctx, &store, "user_id = ?", userID); err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *GormRepo) ListProductsOfStore(ctx context.Context, storeID uint) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
