package forms

import "github.com/AndreyPae/storefront/models"

type CartItemForm struct {
	Quantity int    `form:"quantity" json:"quantity" binding:"required,min=1"`
	Options  string `form:"options" json:"options" binding:"max=255"`
}

type OrderForm struct {
	FirstName      string `form:"first_name" json:"first_name" binding:"required,max=100"`
	LastName       string `form:"last_name" json:"last_name" binding:"required,max=100"`
	Email          string `form:"email" json:"email" binding:"required,email"`
	PhoneNumber    string `form:"phone_number" json:"phone_number" binding:"required,max=20"`
	Address        string `form:"address" json:"address" binding:"required,max=255"`
	City           string `form:"city" json:"city" binding:"required,max=100"`
	PostalCode     string `form:"postal_code" json:"postal_code" binding:"required,max=20"`
	DeliveryMethod string `form:"delivery_method" json:"delivery_method" binding:"required,oneof=pickup courier post"`
}

// Order builds an unsaved order carrying the customer and delivery fields.
func (f OrderForm) Order() models.Order {
	return models.Order{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Email:          f.Email,
		PhoneNumber:    f.PhoneNumber,
		Address:        f.Address,
		City:           f.City,
		PostalCode:     f.PostalCode,
		DeliveryMethod: models.DeliveryMethod(f.DeliveryMethod),
	}
}
