package order

import (
	"context"
	"time"

	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Outcome tells the webhook endpoint what happened to a delivery
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// Delivery outcomes that never reach the caller as a result
const (
	deliveryRejected = "rejected"
	deliveryFailed   = "failed"
)

var errOrderNotFound = shared.NewDomainError(shared.CodeInvalidInput, "Order not found")

// ReconcileResult describes a processed delivery
type ReconcileResult struct {
	EventID   string  `json:"event_id"`
	EventType string  `json:"event_type"`
	Outcome   Outcome `json:"outcome"`
	OrderID   int64   `json:"order_id,omitempty"`
}

// PaymentReconciler applies completed checkouts to orders.
//
// A delivery goes through two ordered phases: the verifier checks the
// signature and parses the payload without touching state, then the order is
// marked paid inside a transaction. Processed event IDs are recorded in the
// ledger after commit so that redeliveries are skipped.
type PaymentReconciler struct {
	verifier  PaymentEventVerifier
	txScope   TransactionScope
	ledger    shared.IdempotencyStore
	ledgerTTL time.Duration
	publisher shared.EventPublisher
	metrics   DeliveryMetrics
	logger    *zap.Logger
}

// DeliveryMetrics records the outcome and duration of every delivery
type DeliveryMetrics interface {
	RecordDelivery(ctx context.Context, outcome string, elapsed time.Duration)
}

type noopDeliveryMetrics struct{}

func (noopDeliveryMetrics) RecordDelivery(context.Context, string, time.Duration) {}

// PaymentReconcilerConfig contains the collaborators of PaymentReconciler.
// Ledger, Publisher and Metrics are optional.
type PaymentReconcilerConfig struct {
	Verifier  PaymentEventVerifier
	TxScope   TransactionScope
	Ledger    shared.IdempotencyStore
	LedgerTTL time.Duration
	Publisher shared.EventPublisher
	Metrics   DeliveryMetrics
	Logger    *zap.Logger
}

// NewPaymentReconciler creates a new PaymentReconciler
func NewPaymentReconciler(cfg PaymentReconcilerConfig) *PaymentReconciler {
	ttl := cfg.LedgerTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var metrics DeliveryMetrics = noopDeliveryMetrics{}
	if cfg.Metrics != nil {
		metrics = cfg.Metrics
	}
	return &PaymentReconciler{
		verifier:  cfg.Verifier,
		txScope:   cfg.TxScope,
		ledger:    cfg.Ledger,
		ledgerTTL: ttl,
		publisher: cfg.Publisher,
		metrics:   metrics,
		logger:    log,
	}
}

// Reconcile verifies a raw delivery and, for a completed checkout, marks the
// referenced order paid with the shipping address and phone of the event.
// Every delivery is recorded in the metrics with its outcome.
func (r *PaymentReconciler) Reconcile(ctx context.Context, payload []byte, signature string) (*ReconcileResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "order.reconcile_payment")
	defer span.End()
	log := logger.WithTraceContext(ctx, r.logger)

	start := time.Now()
	outcome := deliveryFailed
	defer func() { r.metrics.RecordDelivery(ctx, outcome, time.Since(start)) }()

	event, err := r.verifier.ParseCheckoutEvent(payload, signature)
	if err != nil {
		log.Warn("Rejected payment webhook", zap.Error(err))
		telemetry.RecordError(span, err)
		outcome = deliveryRejected
		return nil, err
	}
	span.SetAttributes(
		attribute.String("webhook.event_id", event.ID),
		attribute.String("webhook.event_type", event.Type),
	)

	result := &ReconcileResult{EventID: event.ID, EventType: event.Type}
	if event.IsIgnored() {
		log.Debug("Ignoring payment webhook event type", zap.String("event_type", event.Type))
		result.Outcome = OutcomeIgnored
		outcome = string(result.Outcome)
		return result, nil
	}
	result.OrderID = event.Checkout.OrderID

	if r.alreadyProcessed(ctx, log, event.ID) {
		log.Info("Skipping redelivered payment event",
			zap.String("event_id", event.ID),
			zap.Int64("order_id", event.Checkout.OrderID))
		result.Outcome = OutcomeDuplicate
		outcome = string(result.Outcome)
		return result, nil
	}

	var raised []shared.DomainEvent
	err = r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByIDForUpdate(ctx, event.Checkout.OrderID)
		if err != nil {
			if isNotFound(err) {
				return errOrderNotFound
			}
			return err
		}

		o.MarkPaid(event.Checkout.Shipping, event.ID)
		if err := repos.OrderRepo().SavePayment(ctx, o); err != nil {
			return err
		}
		raised = o.GetDomainEvents()
		o.ClearDomainEvents()
		return nil
	})
	if err != nil {
		log.Error("Failed to apply payment",
			zap.String("event_id", event.ID),
			zap.Int64("order_id", event.Checkout.OrderID),
			zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.markProcessed(ctx, log, event.ID)
	r.notify(ctx, log, raised)

	log.Info("Order marked paid",
		zap.String("event_id", event.ID),
		zap.Int64("order_id", event.Checkout.OrderID),
		zap.Bool("first_payment", len(raised) > 0))

	result.Outcome = OutcomeApplied
	outcome = string(result.Outcome)
	return result, nil
}

// alreadyProcessed consults the ledger. Ledger failures are logged and the
// delivery is applied anyway; the writes are idempotent.
func (r *PaymentReconciler) alreadyProcessed(ctx context.Context, log *zap.Logger, eventID string) bool {
	if r.ledger == nil || eventID == "" {
		return false
	}
	processed, err := r.ledger.IsProcessed(ctx, eventID)
	if err != nil {
		log.Warn("Webhook ledger lookup failed", zap.String("event_id", eventID), zap.Error(err))
		return false
	}
	return processed
}

func (r *PaymentReconciler) markProcessed(ctx context.Context, log *zap.Logger, eventID string) {
	if r.ledger == nil || eventID == "" {
		return
	}
	if _, err := r.ledger.MarkProcessed(ctx, eventID, r.ledgerTTL); err != nil {
		log.Warn("Failed to record webhook event in ledger", zap.String("event_id", eventID), zap.Error(err))
	}
}

// notify publishes the events raised by the transition. It never fails the delivery.
func (r *PaymentReconciler) notify(ctx context.Context, log *zap.Logger, events []shared.DomainEvent) {
	if r.publisher == nil || len(events) == 0 {
		return
	}
	if err := r.publisher.Publish(ctx, events...); err != nil {
		log.Warn("Failed to publish order events", zap.Int("count", len(events)), zap.Error(err))
	}
}
