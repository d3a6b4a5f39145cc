package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	apperrors "github.com/DavCode46/wander-whiskers-server/errors"
	"github.com/DavCode46/wander-whiskers-server/services"
)

// WebhookController receives asynchronous payment events from Stripe and
// drives the fulfillment transaction.
type WebhookController struct {
	Gateway  services.PaymentGateway
	Checkout *services.CheckoutService
	Logger   *zap.Logger
}

func NewWebhookController(gateway services.PaymentGateway, checkout *services.CheckoutService, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		Gateway:  gateway,
		Checkout: checkout,
		Logger:   logger,
	}
}

// StripeWebhook verifies the event signature over the raw body, then
// dispatches by event type. Only checkout.session.completed is handled; every
// other type is acknowledged so Stripe does not redeliver it.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		wc.Logger.Warn("Failed to read webhook body", zap.Error(err))
		c.Error(apperrors.ErrValidation.WithMessage("Invalid webhook payload"))
		return
	}

	event, err := wc.Gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		wc.Logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.Error(apperrors.ErrSignatureInvalid)
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(c, event)
	default:
		// Unhandled event types ack with 200 so Stripe stops retrying.
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func (wc *WebhookController) handleCheckoutCompleted(c *gin.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.String("event_id", event.ID), zap.Error(err))
		c.Error(apperrors.ErrValidation.WithMessage("Malformed checkout session"))
		return
	}

	userID := sess.Metadata["user_id"]
	if userID == "" {
		wc.Logger.Warn("Missing user_id in checkout session metadata",
			zap.String("session_id", sess.ID),
			zap.Any("metadata", sess.Metadata),
		)
		c.Error(apperrors.ErrValidation.WithMessage("Missing user id in session metadata"))
		return
	}

	if err := wc.Checkout.FulfillCheckout(c.Request.Context(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			// A permanently-missing user will not appear on retry; ack so
			// Stripe does not redeliver.
			wc.Logger.Error("User from webhook metadata not found",
				zap.String("user_id", userID),
				zap.String("event_id", event.ID),
			)
			c.JSON(http.StatusOK, gin.H{"status": "received"})
			return
		}
		wc.Logger.Error("Fulfillment failed",
			zap.String("user_id", userID),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		c.Error(apperrors.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
