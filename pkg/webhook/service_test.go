package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

func setupWebhookTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	events := `
CREATE TABLE IF NOT EXISTS webhook_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  published_at DATETIME,
  created_at DATETIME
);`
	dlq := `
CREATE TABLE IF NOT EXISTS webhook_dlq (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  error_reason TEXT NOT NULL,
  error_message TEXT,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  failed_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(events).Error)
	require.NoError(t, db.Exec(dlq).Error)
	return db
}

func newTestEvent(t *testing.T, createdAt time.Time) models.WebhookEvent {
	t.Helper()
	return models.WebhookEvent{
		ID:            uuid.New(),
		EventType:     enums.EventPedidoUpdated,
		AggregateType: enums.AggregatePedido,
		AggregateID:   "PED-001",
		Payload:       []byte(`{"version":1}`),
		CreatedAt:     createdAt,
	}
}

func TestEmitInsertsEnvelopeInTransaction(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	pedido := models.Pedido{
		ID:            "PED-042",
		Productos:     "Creatina x2",
		Tienda:        "PARA MACHOS CR",
		EstadoEntrega: enums.DeliveryStatusPendiente,
		FechaCreacion: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.EventPedidoUpdated,
			AggregateID: pedido.ID,
			Actor:       &ActorRef{Usuario: "admin@magicstars", Role: "admin"},
			Data:        NewPedidoPayload(pedido, "admin@magicstars", "estado_entrega: pendiente -> en_ruta"),
		})
	})
	require.NoError(t, err)

	var rows []models.WebhookEvent
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventPedidoUpdated, rows[0].EventType)
	assert.Equal(t, "PED-042", rows[0].AggregateID)
	assert.Nil(t, rows[0].PublishedAt)
	assert.Contains(t, string(rows[0].Payload), `"usuario":"admin@magicstars"`)
	assert.Contains(t, string(rows[0].Payload), `"eventType":"pedido.updated"`)
}

func TestEmitRollsBackWithCaller(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	boom := errors.New("pedido write failed")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:   enums.EventPedidoCreated,
			AggregateID: "PED-100",
			Data:        map[string]string{"id_pedido": "PED-100"},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}

func TestFetchUnpublishedSkipsExhaustedAndPublished(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)
	now := time.Now()

	fresh := newTestEvent(t, now.Add(-3*time.Minute))
	exhausted := newTestEvent(t, now.Add(-2*time.Minute))
	exhausted.AttemptCount = 10
	published := newTestEvent(t, now.Add(-1*time.Minute))
	publishedAt := now
	published.PublishedAt = &publishedAt

	for _, row := range []models.WebhookEvent{fresh, exhausted, published} {
		require.NoError(t, db.Create(&row).Error)
	}

	rows, err := repo.FetchUnpublishedForPublish(db, 50, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)
}

func TestFetchUnpublishedOrdersOldestFirst(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)
	now := time.Now()

	second := newTestEvent(t, now.Add(-1*time.Minute))
	first := newTestEvent(t, now.Add(-5*time.Minute))
	for _, row := range []models.WebhookEvent{second, first} {
		require.NoError(t, db.Create(&row).Error)
	}

	rows, err := repo.FetchUnpublishedForPublish(db, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].ID)
}

func TestMarkFailedIncrementsAttempts(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)

	event := newTestEvent(t, time.Now())
	require.NoError(t, db.Create(&event).Error)

	require.NoError(t, repo.MarkFailedTx(db, event.ID, errors.New("sink returned 503")))
	require.NoError(t, repo.MarkFailedTx(db, event.ID, errors.New("sink returned 503")))

	var updated models.WebhookEvent
	require.NoError(t, db.First(&updated, "id = ?", event.ID).Error)
	assert.Equal(t, 2, updated.AttemptCount)
	require.NotNil(t, updated.LastError)
	assert.Equal(t, "sink returned 503", *updated.LastError)
	assert.Nil(t, updated.PublishedAt)
}

func TestMarkTerminalStopsFutureFetches(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)

	event := newTestEvent(t, time.Now())
	require.NoError(t, db.Create(&event).Error)

	require.NoError(t, repo.MarkTerminalTx(db, event.ID, errors.New("sink rejected payload"), 10))

	rows, err := repo.FetchUnpublishedForPublish(db, 50, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeletePublishedBeforeKeepsRecentAndUnpublished(t *testing.T) {
	db := setupWebhookTestDB(t)
	repo := NewRepository(db)
	now := time.Now()

	old := newTestEvent(t, now.Add(-72*time.Hour))
	oldPublished := now.Add(-48 * time.Hour)
	old.PublishedAt = &oldPublished

	recent := newTestEvent(t, now.Add(-2*time.Hour))
	recentPublished := now.Add(-time.Hour)
	recent.PublishedAt = &recentPublished

	pending := newTestEvent(t, now.Add(-96*time.Hour))

	for _, row := range []models.WebhookEvent{old, recent, pending} {
		require.NoError(t, db.Create(&row).Error)
	}

	removed, err := repo.DeletePublishedBefore(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestDLQInsertTruncatesLongErrors(t *testing.T) {
	db := setupWebhookTestDB(t)
	dlqRepo := NewDLQRepository(db)

	long := make([]byte, maxDLQErrorLen+100)
	for i := range long {
		long[i] = 'x'
	}
	msg := string(long)

	entry := models.WebhookDLQ{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     enums.EventPedidoDeleted,
		AggregateType: enums.AggregatePedido,
		AggregateID:   "PED-007",
		Payload:       []byte(`{}`),
		ErrorReason:   enums.WebhookDLQReasonMaxAttempts,
		ErrorMessage:  &msg,
		AttemptCount:  10,
		FailedAt:      time.Now(),
	}
	require.NoError(t, dlqRepo.InsertTx(db, entry))

	stored, err := dlqRepo.FindByEventID(context.Background(), entry.EventID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.ErrorMessage)
	assert.Len(t, *stored.ErrorMessage, maxDLQErrorLen)
}

func TestDLQFindByEventIDMissingReturnsNil(t *testing.T) {
	db := setupWebhookTestDB(t)
	dlqRepo := NewDLQRepository(db)

	stored, err := dlqRepo.FindByEventID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, stored)
}
