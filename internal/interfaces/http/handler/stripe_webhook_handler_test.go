package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	orderapp "github.com/storeadmin/backend/internal/application/order"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSignature = "t=1700000000,v1=abc"

var testPayload = []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

func setupWebhookRouter(verifier *MockVerifier, repo *MockOrderRepository) *gin.Engine {
	reconciler := orderapp.NewPaymentReconciler(orderapp.PaymentReconcilerConfig{
		Verifier: verifier,
		TxScope:  orderapp.NewNoOpTransactionScope(repo),
	})
	h := NewStripeWebhookHandler(reconciler)
	router := gin.New()
	router.POST("/api/webhook", h.HandleStripeWebhook)
	return router
}

func postWebhook(router *gin.Engine, payload []byte, signature string) (*httptest.ResponseRecorder, StripeWebhookResponse) {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set(StripeSignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp StripeWebhookResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func checkoutEvent(orderID int64) *orderapp.PaymentEvent {
	return &orderapp.PaymentEvent{
		ID:   "evt_1",
		Type: "checkout.session.completed",
		Checkout: &orderapp.CheckoutCompleted{
			OrderID: orderID,
			Shipping: order.ShippingDetails{
				Address: order.Address{Line1: "1 Main St", City: "Springfield", PostalCode: "12345"},
				Phone:   "+15550100",
			},
		},
	}
}

func unpaidOrder(id int64) *order.Order {
	o := &order.Order{StoreID: testStoreID}
	o.ID = id
	return o
}

func TestStripeWebhook_Applied(t *testing.T) {
	verifier := new(MockVerifier)
	repo := new(MockOrderRepository)
	verifier.On("ParseCheckoutEvent", testPayload, testSignature).Return(checkoutEvent(7), nil)
	repo.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(unpaidOrder(7), nil)
	repo.On("SavePayment", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.IsPaid && o.Address == "1 Main St, Springfield, 12345" && o.Phone == "+15550100"
	})).Return(nil)

	w, resp := postWebhook(setupWebhookRouter(verifier, repo), testPayload, testSignature)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Received)
	assert.Equal(t, "evt_1", resp.EventID)
	assert.Equal(t, string(orderapp.OutcomeApplied), resp.Outcome)
	assert.Equal(t, int64(7), resp.OrderID)
	verifier.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestStripeWebhook_IgnoredEventType(t *testing.T) {
	verifier := new(MockVerifier)
	repo := new(MockOrderRepository)
	verifier.On("ParseCheckoutEvent", testPayload, testSignature).
		Return(&orderapp.PaymentEvent{ID: "evt_2", Type: "payment_intent.created"}, nil)

	w, resp := postWebhook(setupWebhookRouter(verifier, repo), testPayload, testSignature)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(orderapp.OutcomeIgnored), resp.Outcome)
	repo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestStripeWebhook_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		verifyErr error
		status    int
	}{
		{"invalid signature", shared.ErrInvalidSignature, http.StatusBadRequest},
		{"invalid payload", shared.NewDomainError(shared.CodeInvalidInput, "Missing orderId metadata"), http.StatusBadRequest},
		{"unexpected verifier failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(MockVerifier)
			repo := new(MockOrderRepository)
			verifier.On("ParseCheckoutEvent", testPayload, testSignature).Return(nil, tt.verifyErr)

			w, resp := postWebhook(setupWebhookRouter(verifier, repo), testPayload, testSignature)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Received)
			repo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestStripeWebhook_MissingSignature(t *testing.T) {
	verifier := new(MockVerifier)

	w, resp := postWebhook(setupWebhookRouter(verifier, new(MockOrderRepository)), testPayload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing Stripe-Signature header", resp.Message)
	verifier.AssertNotCalled(t, "ParseCheckoutEvent", mock.Anything, mock.Anything)
}

func TestStripeWebhook_PayloadTooLarge(t *testing.T) {
	verifier := new(MockVerifier)
	payload := []byte(strings.Repeat("x", maxWebhookPayloadSize+1))

	w, _ := postWebhook(setupWebhookRouter(verifier, new(MockOrderRepository)), payload, testSignature)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	verifier.AssertNotCalled(t, "ParseCheckoutEvent", mock.Anything, mock.Anything)
}

func TestStripeWebhook_UnknownOrder(t *testing.T) {
	verifier := new(MockVerifier)
	repo := new(MockOrderRepository)
	verifier.On("ParseCheckoutEvent", testPayload, testSignature).Return(checkoutEvent(404), nil)
	repo.On("FindByIDForUpdate", mock.Anything, int64(404)).Return(nil, shared.ErrNotFound)

	w, resp := postWebhook(setupWebhookRouter(verifier, repo), testPayload, testSignature)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Order not found", resp.Message)
	repo.AssertNotCalled(t, "SavePayment", mock.Anything, mock.Anything)
}

func TestStripeWebhook_StorageFailure(t *testing.T) {
	verifier := new(MockVerifier)
	repo := new(MockOrderRepository)
	verifier.On("ParseCheckoutEvent", testPayload, testSignature).Return(checkoutEvent(7), nil)
	repo.On("FindByIDForUpdate", mock.Anything, int64(7)).Return(unpaidOrder(7), nil)
	repo.On("SavePayment", mock.Anything, mock.Anything).Return(errors.New("deadlock detected"))

	w, resp := postWebhook(setupWebhookRouter(verifier, repo), testPayload, testSignature)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Received)
	assert.NotContains(t, w.Body.String(), "deadlock")
}
