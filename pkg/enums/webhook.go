package enums

// WebhookEventType names the audit events forwarded to the notification sink.
type WebhookEventType string

const (
	EventPedidoCreated       WebhookEventType = "pedido.created"
	EventPedidoUpdated       WebhookEventType = "pedido.updated"
	EventPedidoConfirmed     WebhookEventType = "pedido.confirmed"
	EventPedidoStatusChanged WebhookEventType = "pedido.status_changed"
	EventPedidoDeleted       WebhookEventType = "pedido.deleted"
)

// WebhookAggregateType names the entity an audit event refers to.
type WebhookAggregateType string

const (
	AggregatePedido WebhookAggregateType = "pedido"
)

// WebhookDLQReason explains why a webhook event stopped being retried.
type WebhookDLQReason string

const (
	WebhookDLQReasonMaxAttempts  WebhookDLQReason = "max_attempts"
	WebhookDLQReasonNonRetryable WebhookDLQReason = "non_retryable"
)
