package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// WebhookNotifier publica la alerta como JSON en la URL configurada
// (Slack, sistemas del dueño de la tienda, etc.).
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

var _ alerting.Notifier = (*WebhookNotifier)(nil)

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Name() string { return "webhook" }

func (n *WebhookNotifier) Notify(ctx context.Context, alert *entity.Alert) error {
	payload, err := json.Marshal(toAlertPayload(alert))
	if err != nil {
		return fmt.Errorf("webhook: serializar alerta %s: %w", alert.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("webhook: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("webhook: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: respuesta %d del receptor", resp.StatusCode)
	}
	return nil
}
