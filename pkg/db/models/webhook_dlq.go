package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

// WebhookDLQ stores audit events that exhausted their delivery attempts.
type WebhookDLQ struct {
	ID            uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID       uuid.UUID                  `gorm:"column:event_id;type:uuid;not null"`
	EventType     enums.WebhookEventType     `gorm:"column:event_type;not null"`
	AggregateType enums.WebhookAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   string                     `gorm:"column:aggregate_id;not null"`
	Payload       json.RawMessage            `gorm:"column:payload;type:jsonb;not null"`
	ErrorReason   enums.WebhookDLQReason     `gorm:"column:error_reason;not null"`
	ErrorMessage  *string                    `gorm:"column:error_message"`
	AttemptCount  int                        `gorm:"column:attempt_count;not null;default:0"`
	FailedAt      time.Time                  `gorm:"column:failed_at;not null"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default gorm pluralization.
func (WebhookDLQ) TableName() string {
	return "webhook_dlq"
}
