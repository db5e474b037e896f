package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	orderapp "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// StripeSignatureHeader carries the Stripe signature of a delivery
const StripeSignatureHeader = "Stripe-Signature"

// StripeWebhookHandler receives Stripe deliveries. It is called by Stripe
// and does not require authentication.
type StripeWebhookHandler struct {
	BaseHandler
	reconciler *orderapp.PaymentReconciler
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(reconciler *orderapp.PaymentReconciler) *StripeWebhookHandler {
	return &StripeWebhookHandler{reconciler: reconciler}
}

// StripeWebhookResponse represents the response for Stripe webhook
//
//	@Description	Stripe webhook response
type StripeWebhookResponse struct {
	Received  bool   `json:"received" example:"true"`
	EventID   string `json:"event_id,omitempty" example:"evt_1234567890"`
	EventType string `json:"event_type,omitempty" example:"checkout.session.completed"`
	Outcome   string `json:"outcome,omitempty" example:"applied"`
	OrderID   int64  `json:"order_id,omitempty" example:"42"`
	Message   string `json:"message,omitempty" example:"Webhook processed successfully"`
}

// HandleStripeWebhook godoc
//
//	@ID				handleStripeWebhook
//	@Summary		Handle Stripe webhook
//	@Description	Verify a Stripe delivery and mark the referenced order paid on checkout.session.completed
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string					true	"Stripe webhook signature"
//	@Success		200					{object}	StripeWebhookResponse	"Applied, duplicate or ignored"
//	@Failure		400					{object}	StripeWebhookResponse	"Missing or invalid signature, invalid payload or unknown order"
//	@Failure		413					{object}	StripeWebhookResponse	"Payload too large"
//	@Failure		500					{object}	StripeWebhookResponse	"Internal server error"
//	@Router			/webhook [post]
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader(StripeSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), payload, signature)
	if err != nil {
		status, message := webhookErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("Stripe webhook processing failed", zap.Error(err))
		}
		c.JSON(status, StripeWebhookResponse{
			Received: false,
			Message:  message,
		})
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Outcome:   string(result.Outcome),
		OrderID:   result.OrderID,
		Message:   webhookOutcomeMessage(result.Outcome),
	})
}

// webhookErrorStatus maps a reconcile failure to its status. Client faults
// get 400 so Stripe does not retry them; anything else is a 500 and is retried.
func webhookErrorStatus(err error) (int, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case shared.CodeInvalidSignature:
			return http.StatusBadRequest, "Webhook signature verification failed"
		case shared.CodeInvalidInput, shared.CodeNotFound:
			return http.StatusBadRequest, domainErr.Message
		}
	}
	return http.StatusInternalServerError, "Webhook processing failed"
}

func webhookOutcomeMessage(outcome orderapp.Outcome) string {
	switch outcome {
	case orderapp.OutcomeDuplicate:
		return "Event already processed"
	case orderapp.OutcomeIgnored:
		return "Event type ignored"
	default:
		return "Webhook processed successfully"
	}
}
