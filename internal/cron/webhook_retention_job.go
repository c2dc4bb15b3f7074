package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

const defaultRetentionDays = 30

// outboxCleaner deletes published webhook events older than the cutoff.
type outboxCleaner interface {
	DeletePublishedBefore(cutoff time.Time) (int64, error)
}

// dlqCleaner deletes dead-lettered webhook events older than the cutoff.
type dlqCleaner interface {
	DeleteBefore(cutoff time.Time) (int64, error)
}

// WebhookRetentionJobParams configure the retention job.
type WebhookRetentionJobParams struct {
	Logger        *logger.Logger
	Outbox        outboxCleaner
	DLQ           dlqCleaner
	RetentionDays int
}

type webhookRetentionJob struct {
	logg      *logger.Logger
	outbox    outboxCleaner
	dlq       dlqCleaner
	retention int
	now       func() time.Time
}

// NewWebhookRetentionJob builds the job that prunes published webhook events
// and stale DLQ entries past the retention window.
func NewWebhookRetentionJob(params WebhookRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.DLQ == nil {
		return nil, fmt.Errorf("dlq repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultRetentionDays
	}
	return &webhookRetentionJob{
		logg:      params.Logger,
		outbox:    params.Outbox,
		dlq:       params.DLQ,
		retention: retention,
		now:       time.Now,
	}, nil
}

func (j *webhookRetentionJob) Name() string { return "webhook-retention" }

func (j *webhookRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)

	published, err := j.outbox.DeletePublishedBefore(cutoff)
	if err != nil {
		return fmt.Errorf("webhook retention: outbox: %w", err)
	}
	deadLetters, err := j.dlq.DeleteBefore(cutoff)
	if err != nil {
		return fmt.Errorf("webhook retention: dlq: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":               cutoff,
		"retention_days":       j.retention,
		"published_deleted":    published,
		"dead_letters_deleted": deadLetters,
	})
	j.logg.Info(logCtx, "webhook retention cleanup complete")
	return nil
}
