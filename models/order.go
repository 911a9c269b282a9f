package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"  // Customer collects in store
	DeliveryCourier DeliveryMethod = "courier" // Door-to-door courier
	DeliveryPost    DeliveryMethod = "post"    // Postal service
)

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderRef       string          `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	FirstName      string          `gorm:"not null" json:"first_name"`
	LastName       string          `gorm:"not null" json:"last_name"`
	Email          string          `gorm:"index;not null" json:"email"`
	PhoneNumber    string          `gorm:"not null" json:"phone_number"`
	Address        string          `gorm:"not null" json:"address"`
	City           string          `gorm:"not null" json:"city"`
	PostalCode     string          `gorm:"not null" json:"postal_code"`
	DeliveryMethod DeliveryMethod  `gorm:"type:VARCHAR(20);not null" json:"delivery_method"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OrderItem snapshots what was bought. ProductID is kept without a foreign key
// so the record survives product deletion.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity    int             `json:"quantity"`
}

// All returns every model that AutoMigrate should manage.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Tag{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
