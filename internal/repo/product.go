package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shofy/internal/models"
)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *GormRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.updateFields(ctx, product, "name", "description", "price", "quantity")
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.deleteReturning(ctx, &product, id); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
