package entity

import (
	"encoding/json"
	"time"
)

// Estados de un evento del outbox.
const (
	OutboxStatusPending   = "pending"
	OutboxStatusPublished = "published"
	OutboxStatusFailed    = "failed"
)

// Tópicos de eventos publicados por el core.
const (
	TopicSaleCompleted = "sale.completed"
	TopicAlertCreated  = "alert.created"
)

// OutboxEvent es un evento de dominio encolado en la misma transacción que el
// cambio de estado que describe. El dispatcher lo publica al broker con
// semántica at-least-once; el core solo garantiza el encolado con el commit.
type OutboxEvent struct {
	ID          string
	Topic       string
	Payload     json.RawMessage
	Status      string
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	PublishedAt *time.Time
}
