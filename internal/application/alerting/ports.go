package alerting

import (
	"context"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// Notifier canal de salida de notificaciones (email, sms, webhook, dashboard).
// Las implementaciones viven en infrastructure/notify.
type Notifier interface {
	// Name identifica el canal en la tabla de despacho por severidad.
	Name() string

	// Notify envía la alerta por el canal. Un error no revierte la alerta creada.
	Notify(ctx context.Context, alert *entity.Alert) error
}
