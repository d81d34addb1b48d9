package models

import (
	"github.com/shopspring/decimal"
)

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"  json:"id"       validate:"-"`
	Name     string `gorm:"size:50;not null"          json:"name"     validate:"required,max=50"`
	Username string `gorm:"size:20;not null"          json:"username" validate:"required,max=20"`
	Email    string `gorm:"size:50;not null"          json:"email"    validate:"required,max=50"`

	Store *Store     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Cart  []CartItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// Store shares its primary key with the owning user.
type Store struct {
	UserID   uint   `gorm:"primaryKey;autoIncrement:false" json:"user_id"  validate:"-"`
	Name     string `gorm:"size:30;not null"               json:"name"     validate:"required,max=30"`
	Location string `gorm:"size:50;not null"               json:"location" validate:"required,max=50"`

	Products []Product `gorm:"foreignKey:StoreID;references:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"   json:"id"          validate:"-"`
	Name        string          `gorm:"size:150;not null"          json:"name"        validate:"required,max=150"`
	Description string          `gorm:"size:1000;not null"         json:"description" validate:"required,max=1000"`
	Price       decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"price"       validate:"decimal_gte=0,decimal_digits=14,decimal_places=3,decimal_whole=11"`
	Quantity    int             `gorm:"not null;check:chk_products_quantity,quantity >= 0" json:"quantity" validate:"gte=0"`
	StoreID     uint            `gorm:"index;not null"             json:"store_id"    validate:"-"`

	CartItems []CartItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                 json:"id"         validate:"-"`
	UserID    uint `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"    validate:"-"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id" validate:"-"`
	Quantity  int  `gorm:"not null;check:chk_cart_items_quantity,quantity >= 0" json:"quantity" validate:"gte=0"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// All lists every table in migration order.
func All() []any {
	return []any{&User{}, &Store{}, &Product{}, &CartItem{}}
}
