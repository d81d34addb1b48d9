package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shofy/internal/models"
)

// Envelope wraps every response body.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Field sets use pointers so that an update only touches the fields the
// client sent.

type UserFields struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (f UserFields) ApplyTo(u *models.User) {
	if f.Name != nil {
		u.Name = *f.Name
	}
	if f.Username != nil {
		u.Username = *f.Username
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
}

type StoreFields struct {
	UserID   *uint   `json:"user_id"`
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

func (f StoreFields) ApplyTo(s *models.Store) {
	if f.Name != nil {
		s.Name = *f.Name
	}
	if f.Location != nil {
		s.Location = *f.Location
	}
}

type ProductFields struct {
	StoreID     *uint            `json:"store_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
}

func (f ProductFields) ApplyTo(p *models.Product) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Quantity != nil {
		p.Quantity = *f.Quantity
	}
}

type CartItemFields struct {
	UserID    *uint `json:"user_id"`
	ProductID *uint `json:"product_id"`
	Quantity  *int  `json:"quantity"`
}

func (f CartItemFields) ApplyTo(c *models.CartItem) {
	if f.Quantity != nil {
		c.Quantity = *f.Quantity
	}
}

type SearchResult struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
