package order

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/clients"
	"lubritec-storefront-svc/src/internal/models"
)

// API is the slice of the commerce client orders need.
type API interface {
	GetCart(ctx context.Context, token string) (*models.Cart, error)
	CreateOrder(ctx context.Context, token string, req *models.CheckoutRequest) (*models.Order, error)
	ListOrders(ctx context.Context, token string) ([]*models.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*models.Order, error)
}

type Service interface {
	Checkout(ctx context.Context, token, userID string, req *models.CheckoutRequest) (*models.Order, error)
	History(ctx context.Context, token string) ([]*models.Order, error)
	Get(ctx context.Context, token, orderID string) (*models.Order, error)
}

type service struct {
	api    API
	events clients.EventPublisher
}

func NewService(api API, events clients.EventPublisher) Service {
	return &service{
		api:    api,
		events: events,
	}
}

// Checkout turns the current cart into an order. The card number, when
// given, is Luhn-checked before anything leaves the service; an empty
// cart is rejected for the same reason, the commerce API would only
// tell us later.
func (s *service) Checkout(ctx context.Context, token, userID string, req *models.CheckoutRequest) (*models.Order, error) {
	if req.CardNumber != "" && !validCardNumber(req.CardNumber) {
		return nil, models.ErrInvalidCard
	}

	cart, err := s.api.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	order, err := s.api.CreateOrder(ctx, token, req)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		publishErr := s.events.PublishOrderPlaced(&models.OrderPlacedMessage{
			OrderID:    order.ID,
			UserID:     userID,
			TotalCents: order.TotalCents,
			ItemCount:  len(order.Items),
		})
		if publishErr != nil {
			// The order exists remotely; losing the event is not a
			// reason to fail the checkout.
			logrus.WithError(publishErr).WithField("order_id", order.ID).Warn("Failed to publish order event")
		}
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"user_id":     userID,
		"total_cents": order.TotalCents,
	}).Info("Order placed")

	return order, nil
}

func (s *service) History(ctx context.Context, token string) ([]*models.Order, error) {
	return s.api.ListOrders(ctx, token)
}

func (s *service) Get(ctx context.Context, token, orderID string) (*models.Order, error) {
	return s.api.GetOrder(ctx, token, orderID)
}

// validCardNumber strips separators and applies the Luhn check. The
// checksum runs over the digit string directly; 19-digit card numbers
// do not fit an integer type.
func validCardNumber(card string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(card)
	if len(cleaned) < 12 || len(cleaned) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		c := cleaned[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
