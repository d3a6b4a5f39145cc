package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/repository"
)

var (
	// ErrUserNotFound is returned when the checkout or fulfillment target
	// user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyCart is returned when checkout is requested with nothing in
	// the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentGateway wraps session-creation failures from the payment
	// provider so callers can tell them apart from persistence errors.
	ErrPaymentGateway = errors.New("payment gateway error")
)

// PriceTable maps subscription plan names to provider price IDs, configured
// out-of-band.
type PriceTable struct {
	MonthlyPriceID string
	AnnualPriceID  string
}

// PriceFor resolves a plan name to its Stripe price id. The monthly plan has
// its own price; every other plan uses the annual one.
func (p PriceTable) PriceFor(planName string) string {
	if planName == models.PlanMonthly {
		return p.MonthlyPriceID
	}
	return p.AnnualPriceID
}

// CheckoutService drives the checkout-to-fulfillment workflow: cart
// aggregation, payment session creation and webhook-driven order
// materialization.
type CheckoutService struct {
	Users    repository.UserRepo
	Carts    repository.CartRepo
	Products repository.ProductRepo
	Orders   repository.OrderRepo
	Gateway  PaymentGateway
	Prices   PriceTable

	SuccessURL string
	CancelURL  string

	Logger *zap.Logger
}

func NewCheckoutService(
	users repository.UserRepo,
	carts repository.CartRepo,
	products repository.ProductRepo,
	orders repository.OrderRepo,
	gateway PaymentGateway,
	prices PriceTable,
	successURL, cancelURL string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		Users:      users,
		Carts:      carts,
		Products:   products,
		Orders:     orders,
		Gateway:    gateway,
		Prices:     prices,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Logger:     logger,
	}
}

// BuildLineItems resolves the user's cart into priced line items. It is
// read-only. A user without a cart yields an empty slice and no error; the
// caller decides whether that is a problem.
func (s *CheckoutService) BuildLineItems(ctx context.Context, userID primitive.ObjectID) ([]LineItem, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var items []LineItem
	for _, cartID := range user.Cart {
		cart, err := s.Carts.FindByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				s.Logger.Warn("Cart referenced by user no longer exists",
					zap.String("user_id", userID.Hex()),
					zap.String("cart_id", cartID.Hex()),
				)
				continue
			}
			return nil, err
		}

		for _, productID := range cart.Products {
			product, err := s.Products.FindByID(ctx, productID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					s.Logger.Warn("Product referenced by cart no longer exists",
						zap.String("cart_id", cartID.Hex()),
						zap.String("product_id", productID.Hex()),
					)
					continue
				}
				return nil, err
			}
			items = append(items, LineItem{
				PriceID:  s.Prices.PriceFor(product.Name),
				Quantity: 1,
			})
		}
	}
	return items, nil
}

// Checkout creates a payment session for the user's cart and returns the
// redirect URL. Gateway failures come back wrapped in ErrPaymentGateway;
// checkout is user-initiated and safe to retry manually.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID) (string, error) {
	items, err := s.BuildLineItems(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	handle, err := s.Gateway.CreateCheckoutSession(userID.Hex(), items, s.SuccessURL, s.CancelURL)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w: %w", ErrPaymentGateway, err)
	}

	s.Logger.Info("Checkout session created",
		zap.String("user_id", userID.Hex()),
		zap.String("session_id", handle.ID),
	)
	return handle.URL, nil
}

// FulfillCheckout converts a completed checkout into persisted orders: one
// order per purchased product, then the user's cart reference is cleared, the
// subscription flag set, and the cart document removed.
//
// Missing products are skipped with a warning so the remaining items still
// fulfill. There is no transactional wrapper across the steps: a persistence
// failure part-way through returns an error (the provider redelivers) without
// rolling back orders already created.
func (s *CheckoutService) FulfillCheckout(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	user, err := s.Users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	for _, cartID := range user.Cart {
		cart, err := s.Carts.FindByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				s.Logger.Warn("Cart referenced by user no longer exists",
					zap.String("user_id", userID),
					zap.String("cart_id", cartID.Hex()),
				)
				continue
			}
			return err
		}

		for _, productID := range cart.Products {
			product, err := s.Products.FindByID(ctx, productID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					s.Logger.Warn("Skipping missing product during fulfillment",
						zap.String("user_id", userID),
						zap.String("product_id", productID.Hex()),
					)
					continue
				}
				return err
			}

			order := &models.Order{
				User:     user.ID,
				Products: []primitive.ObjectID{product.ID},
			}
			if err := s.Orders.Create(ctx, order); err != nil {
				return fmt.Errorf("create order: %w", err)
			}
			s.Logger.Info("Order created",
				zap.String("user_id", userID),
				zap.String("order_id", order.ID.Hex()),
				zap.String("product_id", product.ID.Hex()),
			)
		}
	}

	updates := map[string]interface{}{
		"cart":         []primitive.ObjectID{},
		"isSubscribed": true,
	}
	if err := s.Users.Update(ctx, user.ID, updates); err != nil {
		return fmt.Errorf("update user after fulfillment: %w", err)
	}

	if err := s.Carts.DeleteByUser(ctx, user.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("delete fulfilled cart: %w", err)
	}

	return nil
}
