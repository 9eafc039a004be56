package notify

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/pkg/config"
)

// EmailNotifier envía alertas por SMTP. Se usa para severidades high y
// critical según la tabla de canales.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

var _ alerting.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify arma y envía el correo. gomail no acepta contexto, así que se
// verifica la cancelación antes de marcar la conexión SMTP.
func (n *EmailNotifier) Notify(ctx context.Context, alert *entity.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s", strings.ToUpper(alert.Severity), alert.Title))
	m.SetBody("text/plain", n.body(alert))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo de alerta %s: %w", alert.ID, err)
	}
	return nil
}

func (n *EmailNotifier) body(alert *entity.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", alert.Message)
	fmt.Fprintf(&b, "Tipo: %s\n", alert.Type)
	fmt.Fprintf(&b, "Severidad: %s\n", alert.Severity)
	if alert.ProductID != "" {
		fmt.Fprintf(&b, "Producto: %s\n", alert.ProductID)
	}
	fmt.Fprintf(&b, "Generada: %s\n", alert.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
