package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shofy/internal/models"
)

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (r *GormRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return r.updateFields(ctx, user, "name", "username", "email")
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.deleteReturning(ctx, &user, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListCartOfUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
