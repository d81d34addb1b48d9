package service

import (
	"context"

	"github.com/Skotchmaster/shofy/internal/events"
	"github.com/Skotchmaster/shofy/internal/models"
	"github.com/Skotchmaster/shofy/internal/transport"
	"github.com/Skotchmaster/shofy/internal/validation"
)

type CartRepo interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListCartItems(ctx context.Context) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, id uint) (*models.CartItem, error)
	AddToCart(ctx context.Context, item *models.CartItem) (bool, error)
	UpdateCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, id uint) (*models.CartItem, error)
}

type CartService struct {
	Repo   CartRepo
	Events events.Publisher
}

func (s *CartService) List(ctx context.Context) ([]models.CartItem, error) {
	return s.Repo.ListCartItems(ctx)
}

func (s *CartService) Get(ctx context.Context, id uint) (*models.CartItem, error) {
	item, err := s.Repo.GetCartItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return item, nil
}

// Add puts quantity of the product into the user's cart. If the pair is
// already in the cart its quantity grows and created is false.
func (s *CartService) Add(ctx context.Context, f transport.CartItemFields) (item *models.CartItem, created bool, err error) {
	userID := transport.Deref(f.UserID)
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return nil, false, reference(err, "User", userID)
	}
	productID := transport.Deref(f.ProductID)
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, false, reference(err, "Product", productID)
	}

	add := models.CartItem{UserID: userID, ProductID: productID}
	f.ApplyTo(&add)
	var missing []validation.FieldError
	if f.Quantity == nil {
		missing = append(missing, validation.Required("quantity"))
	}
	if err := validation.Join(validation.Struct(add), missing...); err != nil {
		return nil, false, err
	}

	created, err = s.Repo.AddToCart(ctx, &add)
	if err != nil {
		return nil, false, err
	}

	typ := "cart_item_updated"
	if created {
		typ = "cart_item_created"
	}
	publish(ctx, s.Events, events.TopicCart, typ, add.ID, add)
	return &add, created, nil
}

// Update sets the quantity of an existing cart item.
func (s *CartService) Update(ctx context.Context, id uint, f transport.CartItemFields) (*models.CartItem, error) {
	item, err := s.Repo.GetCartItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "cart item")
	}

	f.ApplyTo(item)
	if err := validation.Struct(*item); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateCartItem(ctx, item); err != nil {
		return nil, notFound(err, "cart item")
	}

	publish(ctx, s.Events, events.TopicCart, "cart_item_updated", item.ID, item)
	return item, nil
}

func (s *CartService) Delete(ctx context.Context, id uint) (*models.CartItem, error) {
	item, err := s.Repo.DeleteCartItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "cart item")
	}

	publish(ctx, s.Events, events.TopicCart, "cart_item_deleted", item.ID, nil)
	return item, nil
}
