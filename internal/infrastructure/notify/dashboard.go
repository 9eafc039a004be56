package notify

import (
	"context"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// DashboardNotifier empuja la alerta a los clientes WebSocket conectados.
// Es el canal mínimo: toda severidad lo incluye.
type DashboardNotifier struct {
	broadcaster Broadcaster
}

var _ alerting.Notifier = (*DashboardNotifier)(nil)

func NewDashboardNotifier(b Broadcaster) *DashboardNotifier {
	return &DashboardNotifier{broadcaster: b}
}

func (n *DashboardNotifier) Name() string { return "dashboard" }

func (n *DashboardNotifier) Notify(_ context.Context, alert *entity.Alert) error {
	n.broadcaster.Broadcast(entity.TopicAlertCreated, toAlertPayload(alert))
	return nil
}
