package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// SMSNotifier registra la alerta en el log. La integración con el proveedor
// de SMS aún no está contratada; el canal existe para que las severidades
// critical no pierdan el envío cuando se conecte.
type SMSNotifier struct{}

var _ alerting.Notifier = (*SMSNotifier)(nil)

func NewSMSNotifier() *SMSNotifier { return &SMSNotifier{} }

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Notify(_ context.Context, alert *entity.Alert) error {
	log.Info().
		Str("alert_id", alert.ID).
		Str("severity", alert.Severity).
		Str("title", alert.Title).
		Msg("Alerta SMS (canal en modo log)")
	return nil
}
