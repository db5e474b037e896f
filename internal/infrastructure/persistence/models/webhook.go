package models

import "time"

// ProcessedWebhookEventModel is one entry of the webhook event ledger.
// A row is live until ExpiresAt; expired rows are pruned on a schedule.
type ProcessedWebhookEventModel struct {
	EventID     string    `gorm:"type:varchar(255);primaryKey"`
	ProcessedAt time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProcessedWebhookEventModel) TableName() string {
	return "processed_webhook_events"
}
