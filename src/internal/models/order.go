package models

import "time"

type Order struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Items      []CartItem `json:"items"`
	TotalCents int64      `json:"totalCents"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Order status constants, matching the commerce API's state machine.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// CheckoutRequest is the storefront checkout payload. CardNumber is
// optional; when present it is Luhn-checked locally before the order
// is forwarded, so obvious typos never reach the payment gateway.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	City            string `json:"city" binding:"required"`
	PostalCode      string `json:"postalCode"`
	Phone           string `json:"phone"`
	CardNumber      string `json:"cardNumber,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type OrderStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// OrderPlacedMessage is the event published to RabbitMQ after a
// successful checkout.
type OrderPlacedMessage struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalCents int64     `json:"total_cents"`
	ItemCount  int       `json:"item_count"`
	Timestamp  time.Time `json:"timestamp"`
}
