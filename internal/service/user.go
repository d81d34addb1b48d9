package service

import (
	"context"

	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/internal/models"
	"github.com/Skotchmaster/shofy/internal/transport"
	"github.com/Skotchmaster/shofy/internal/validation"
)

type UserRepo interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) (*models.User, error)
	ListCartOfUser(ctx context.Context, userID uint) ([]models.CartItem, error)
}

type UserService struct {
	Repo   UserRepo
	Events events.Publisher
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, f transport.UserFields) (*models.User, error) {
	var user models.User
	f.ApplyTo(&user)
	if err := validation.Struct(user); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, "user_created", user.ID, user)
	return &user, nil
}

// Update merges f into the stored user and validates the result as a whole.
func (s *UserService) Update(ctx context.Context, id uint, f transport.UserFields) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	f.ApplyTo(user)
	if err := validation.Struct(*user); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateUser(ctx, user); err != nil {
		return nil, notFound(err, "user")
	}

	publish(ctx, s.Events, events.TopicUsers, "user_updated", user.ID, user)
	return user, nil
}

// Delete removes the user together with its store, the store's products and
// the user's cart.
func (s *UserService) Delete(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	publish(ctx, s.Events, events.TopicUsers, "user_deleted", user.ID, nil)
	return user, nil
}

func (s *UserService) ListCart(ctx context.Context, userID uint) (*models.User, []models.CartItem, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, notFound(err, "user")
	}

	items, err := s.Repo.ListCartOfUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, items, nil
}
