package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/internal/models"
	"github.com/Skotchmaster/shofy/internal/transport"
	"github.com/Skotchmaster/shofy/internal/validation"
)

type StoreRepo interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListStores(ctx context.Context) ([]models.Store, error)
	GetStore(ctx context.Context, userID uint) (*models.Store, error)
	CreateStore(ctx context.Context, store *models.Store) (bool, error)
	UpdateStore(ctx context.Context, store *models.Store) error
	DeleteStore(ctx context.Context, userID uint) (*models.Store, error)
	ListProductsOfStore(ctx context.Context, storeID uint) ([]models.Product, error)
}

type StoreService struct {
	Repo   StoreRepo
	Events events.Publisher
}

func (s *StoreService) List(ctx context.Context) ([]models.Store, error) {
	return s.Repo.ListStores(ctx)
}

// GetByUser returns the store owned by userID. A missing user is reported as
// a ReferenceError, a user without a store as ErrNotFound.
func (s *StoreService) GetByUser(ctx context.Context, userID uint) (*models.Store, error) {
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return nil, reference(err, "User", userID)
	}

	store, err := s.Repo.GetStore(ctx, userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	return store, nil
}

// Create opens a store for the referenced user. When the user already owns a
// store, that store is returned together with ErrDuplicateRelationship.
func (s *StoreService) Create(ctx context.Context, f transport.StoreFields) (*models.Store, error) {
	userID := transport.Deref(f.UserID)
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return nil, reference(err, "User", userID)
	}

	existing, err := s.Repo.GetStore(ctx, userID)
	switch {
	case err == nil:
		return existing, ErrDuplicateRelationship
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	store := models.Store{UserID: userID}
	f.ApplyTo(&store)
	if err := validation.Struct(store); err != nil {
		return nil, err
	}

	created, err := s.Repo.CreateStore(ctx, &store)
	if err != nil {
		return nil, err
	}
	if !created {
		return &store, ErrDuplicateRelationship
	}

	publish(ctx, s.Events, events.TopicStores, "store_created", store.UserID, store)
	return &store, nil
}

func (s *StoreService) Update(ctx context.Context, userID uint, f transport.StoreFields) (*models.Store, error) {
	store, err := s.Repo.GetStore(ctx, userID)
	if err != nil {
		return nil, notFound(err, "store")
	}

	f.ApplyTo(store)
	if err := validation.Struct(*store); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateStore(ctx, store); err != nil {
		return nil, notFound(err, "store")
	}

	publish(ctx, s.Events, events.TopicStores, "store_updated", store.UserID, store)
	return store, nil
}

func (s *StoreService) Delete(ctx context.Context, userID uint) (*models.Store, error) {
	store, err := s.Repo.DeleteStore(ctx, userID)
	if err != nil {
		return nil, notFound(err, "store")
	}

	publish(ctx, s.Events, events.TopicStores, "store_deleted", store.UserID, nil)
	return store, nil
}

func (s *StoreService) ListProducts(ctx context.Context, storeID uint) ([]models.Product, error) {
	if _, err := s.Repo.GetStore(ctx, storeID); err != nil {
		return nil, notFound(err, "store")
	}
	return s.Repo.ListProductsOfStore(ctx, storeID)
}
