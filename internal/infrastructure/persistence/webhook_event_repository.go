package persistence

import (
	"context"
	"time"

	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWebhookEventLedger implements shared.IdempotencyStore on the
// processed_webhook_events table, so that the ledger survives restarts and
// is shared by every replica without Redis.
type GormWebhookEventLedger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormWebhookEventLedger creates a new GormWebhookEventLedger
func NewGormWebhookEventLedger(db *gorm.DB) *GormWebhookEventLedger {
	return &GormWebhookEventLedger{db: db, now: time.Now}
}

// MarkProcessed records the event ID. It returns false when a live entry
// already exists. An expired entry is replaced.
func (l *GormWebhookEventLedger) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	now := l.now()
	db := l.db.WithContext(ctx)

	if err := db.Where("event_id = ? AND expires_at <= ?", eventID, now).
		Delete(&models.ProcessedWebhookEventModel{}).Error; err != nil {
		return false, err
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedWebhookEventModel{
			EventID:     eventID,
			ProcessedAt: now,
			ExpiresAt:   now.Add(ttl),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IsProcessed reports whether a live entry exists for the event ID
func (l *GormWebhookEventLedger) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.ProcessedWebhookEventModel{}).
		Where("event_id = ? AND expires_at > ?", eventID, l.now()).
		Count(&count).Error
	return count > 0, err
}

// Prune deletes expired entries and returns how many were removed
func (l *GormWebhookEventLedger) Prune(ctx context.Context) (int64, error) {
	result := l.db.WithContext(ctx).
		Where("expires_at <= ?", l.now()).
		Delete(&models.ProcessedWebhookEventModel{})
	return result.RowsAffected, result.Error
}

// Close is a no-op; the connection pool is owned by Database
func (l *GormWebhookEventLedger) Close() error {
	return nil
}

var _ shared.IdempotencyStore = (*GormWebhookEventLedger)(nil)
