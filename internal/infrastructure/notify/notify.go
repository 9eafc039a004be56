// Package notify implementa los canales de salida de alertas (email, sms,
// webhook, dashboard). Cada canal implementa alerting.Notifier y se registra
// en el ChannelRegistry; la tabla de severidades decide cuáles se usan.
package notify

import (
	"time"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// Broadcaster reenvía eventos a los clientes conectados al dashboard.
// Lo implementa el hub de WebSocket.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// alertPayload es la representación JSON de una alerta hacia afuera
// (webhook y dashboard usan el mismo formato).
type alertPayload struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Status    string    `json:"status"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	ProductID string    `json:"product_id,omitempty"`
	SaleID    string    `json:"sale_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAlertPayload(alert *entity.Alert) alertPayload {
	p := alertPayload{
		ID:        alert.ID,
		Type:      alert.Type,
		Severity:  alert.Severity,
		Status:    alert.Status,
		Title:     alert.Title,
		Message:   alert.Message,
		ProductID: alert.ProductID,
		SaleID:    alert.SaleID,
		CreatedAt: alert.CreatedAt,
	}
	if len(alert.Details) > 0 {
		p.Details = alert.Details
	}
	return p
}
