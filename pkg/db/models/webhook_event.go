package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

// WebhookEvent is an audit event queued for delivery to the notification sink.
// Rows are inserted in the same transaction as the pedido write.
type WebhookEvent struct {
	ID            uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventType     enums.WebhookEventType     `gorm:"column:event_type;not null"`
	AggregateType enums.WebhookAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   string                     `gorm:"column:aggregate_id;not null"`
	Payload       json.RawMessage            `gorm:"column:payload;type:jsonb;not null"`
	AttemptCount  int                        `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                    `gorm:"column:last_error"`
	PublishedAt   *time.Time                 `gorm:"column:published_at"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default gorm pluralization.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
