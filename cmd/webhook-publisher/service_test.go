package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/config"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.WebhookEvent{
			pendingEvent(t, enums.EventPedidoCreated, "event-one"),
			pendingEvent(t, enums.EventPedidoUpdated, "event-two"),
		},
	}
	deliverer := &fakeSink{
		results: []error{
			errors.New("transient"),
			nil,
		},
	}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, deliverer, dlqRepo, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
	if got := len(dlqRepo.entries); got != 0 {
		t.Fatalf("transient failure should not dead-letter, got %d entries", got)
	}
}

func TestServiceProcessBatchWritesDLQOnNonRetryable(t *testing.T) {
	event := pendingEvent(t, enums.EventPedidoCreated, "nonretryable")
	repo := &fakeRepo{events: []models.WebhookEvent{event}}
	deliverer := &fakeSink{
		results: []error{
			nonRetryableError{err: errors.New("sink URL not configured")},
		},
	}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, deliverer, dlqRepo, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	entry := dlqRepo.entries[0]
	if entry.EventID != event.ID {
		t.Fatalf("dlq event_id mismatch: %s", entry.EventID)
	}
	if entry.Payload == nil || !bytes.Equal(entry.Payload, event.Payload) {
		t.Fatalf("dlq payload mismatch")
	}
	if entry.ErrorReason != enums.WebhookDLQReasonNonRetryable {
		t.Fatalf("unexpected error reason: %s", entry.ErrorReason)
	}
	if got := len(repo.terminal); got != 1 || repo.terminal[0] != event.ID {
		t.Fatalf("expected event marked terminal")
	}
}

func TestServiceProcessBatchWritesDLQOnMaxAttempts(t *testing.T) {
	event := pendingEvent(t, enums.EventPedidoCreated, "max-attempts")
	event.AttemptCount = 1
	repo := &fakeRepo{events: []models.WebhookEvent{event}}
	deliverer := &fakeSink{
		results: []error{
			errors.New("transient"),
		},
	}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, deliverer, dlqRepo, &config.WebhookConfig{
		BatchSize:      1,
		PollIntervalMS: 100,
		MaxAttempts:    2,
	})

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	entry := dlqRepo.entries[0]
	if entry.EventID != event.ID {
		t.Fatalf("dlq event_id mismatch: %s", entry.EventID)
	}
	if entry.ErrorReason != enums.WebhookDLQReasonMaxAttempts {
		t.Fatalf("unexpected error reason: %s", entry.ErrorReason)
	}
}

func TestServiceProcessBatchEmptyQueue(t *testing.T) {
	repo := &fakeRepo{}
	service := newTestService(t, repo, &fakeSink{}, &fakeDLQRepo{}, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if processed {
		t.Fatalf("empty queue should not report processed")
	}
}

func TestHTTPSinkDeliver(t *testing.T) {
	var gotEventHeader, gotEventID string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEventHeader = r.Header.Get("X-MagicStars-Event")
		gotEventID = r.Header.Get("X-MagicStars-Event-Id")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	event := pendingEvent(t, enums.EventPedidoConfirmed, "deliver")
	s := newHTTPSink(config.WebhookConfig{SinkURL: server.URL})
	if err := s.Deliver(context.Background(), event); err != nil {
		t.Fatalf("deliver returned error: %v", err)
	}
	if gotEventHeader != string(enums.EventPedidoConfirmed) {
		t.Fatalf("unexpected event header: %q", gotEventHeader)
	}
	if gotEventID != event.ID.String() {
		t.Fatalf("unexpected event id header: %q", gotEventID)
	}
	if !bytes.Equal(gotBody, event.Payload) {
		t.Fatalf("payload mismatch: %s", gotBody)
	}
}

func TestHTTPSinkNon2xxIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := newHTTPSink(config.WebhookConfig{SinkURL: server.URL})
	err := s.Deliver(context.Background(), pendingEvent(t, enums.EventPedidoCreated, "retryable"))
	if err == nil {
		t.Fatalf("expected error for 502 response")
	}
	var nonRetry nonRetryableError
	if errors.As(err, &nonRetry) {
		t.Fatalf("non-2xx response must remain retryable: %v", err)
	}
}

func TestHTTPSinkMissingURLIsNonRetryable(t *testing.T) {
	s := newHTTPSink(config.WebhookConfig{})
	err := s.Deliver(context.Background(), pendingEvent(t, enums.EventPedidoCreated, "no-url"))
	if err == nil {
		t.Fatalf("expected error for missing sink URL")
	}
	var nonRetry nonRetryableError
	if !errors.As(err, &nonRetry) {
		t.Fatalf("missing sink URL must be non-retryable: %v", err)
	}
}

func newTestService(t *testing.T, repo outboxRepository, deliverer sink, dlq dlqRepository, webhookCfgOverride *config.WebhookConfig) *Service {
	webhookCfg := config.WebhookConfig{
		BatchSize:      2,
		PollIntervalMS: 100,
		MaxAttempts:    5,
	}
	if webhookCfgOverride != nil {
		webhookCfg = *webhookCfgOverride
	}
	cfg := &config.Config{
		Webhook: webhookCfg,
	}
	logg := logger.New(logger.Options{
		ServiceName: "webhook-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         &fakeDB{},
		Repository: repo,
		DLQ:        dlq,
		Sink:       deliverer,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func pendingEvent(tb testing.TB, eventType enums.WebhookEventType, marker string) models.WebhookEvent {
	tb.Helper()
	payload, err := json.Marshal(map[string]string{"marker": marker})
	if err != nil {
		tb.Fatalf("marshal payload: %v", err)
	}
	return models.WebhookEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregatePedido,
		AggregateID:   uuid.NewString(),
		Payload:       payload,
	}
}

type fakeRepo struct {
	events    []models.WebhookEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (f *fakeRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.WebhookEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(tx *gorm.DB, id uuid.UUID, cause error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminalTx(tx *gorm.DB, id uuid.UUID, cause error, terminalAttempts int) error {
	f.terminal = append(f.terminal, id)
	return nil
}

func (f *fakeRepo) CountUnpublished() (int64, error) {
	return int64(len(f.events)), nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakeDLQRepo struct {
	entries []models.WebhookDLQ
}

func (f *fakeDLQRepo) InsertTx(tx *gorm.DB, entry models.WebhookDLQ) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeSink struct {
	results []error
}

func (f *fakeSink) Deliver(context.Context, models.WebhookEvent) error {
	if len(f.results) == 0 {
		return nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}
