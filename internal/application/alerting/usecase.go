package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/ports"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

const (
	// defaultExpiresHours vigencia por defecto de una alerta.
	defaultExpiresHours = 24

	// alertCacheTTL TTL del espejo en caché de alertas recientes.
	alertCacheTTL = time.Hour
)

// AlertEngineUseCase crea alertas con deduplicación, las despacha por los
// canales según severidad y gobierna su ciclo de vida
// (ACTIVE -> ACKNOWLEDGED/RESOLVED/DISMISSED/EXPIRED).
type AlertEngineUseCase struct {
	alertRepo repository.AlertRepository
	outbox    repository.OutboxRepository
	registry  *ChannelRegistry
	cache     ports.CacheStore
}

// NewAlertEngineUseCase construye el caso de uso. outbox y cache pueden ser nil.
func NewAlertEngineUseCase(alertRepo repository.AlertRepository, outbox repository.OutboxRepository, registry *ChannelRegistry, cache ports.CacheStore) *AlertEngineUseCase {
	return &AlertEngineUseCase{alertRepo: alertRepo, outbox: outbox, registry: registry, cache: cache}
}

// CreateAlertInput entrada para crear una alerta.
type CreateAlertInput struct {
	Type           string
	Severity       string
	Title          string
	Message        string
	ProductID      string
	SaleID         string
	Details        map[string]any
	ExpiresInHours int // 0 usa el valor por defecto (24)
}

// Create crea y despacha una alerta. Si ya existe una ACTIVE del mismo tipo
// para el mismo producto, devuelve la existente sin crear otra.
func (uc *AlertEngineUseCase) Create(ctx context.Context, input CreateAlertInput) (*entity.Alert, error) {
	if input.Type == "" || input.Severity == "" || input.Title == "" {
		return nil, domain.ErrInvalidInput
	}

	if input.ProductID != "" {
		existing, err := uc.alertRepo.FindActiveByTypeAndProduct(ctx, input.Type, input.ProductID)
		if err != nil {
			return nil, fmt.Errorf("buscar alerta activa: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	var details json.RawMessage
	if len(input.Details) > 0 {
		raw, err := json.Marshal(input.Details)
		if err != nil {
			return nil, fmt.Errorf("serializar detalles de alerta: %w", err)
		}
		details = raw
	}

	hours := input.ExpiresInHours
	if hours <= 0 {
		hours = defaultExpiresHours
	}
	now := time.Now()
	expires := now.Add(time.Duration(hours) * time.Hour)

	alert := &entity.Alert{
		Type:      input.Type,
		Severity:  input.Severity,
		Status:    entity.AlertStatusActive,
		Title:     input.Title,
		Message:   input.Message,
		Details:   details,
		ProductID: input.ProductID,
		SaleID:    input.SaleID,
		CreatedAt: now,
		ExpiresAt: &expires,
	}
	if err := uc.alertRepo.Create(alert); err != nil {
		return nil, fmt.Errorf("crear alerta: %w", err)
	}

	uc.dispatch(ctx, alert)
	uc.enqueueCreated(alert)
	uc.cacheAlert(ctx, alert)

	log.Info().Str("alert_id", alert.ID).Str("type", alert.Type).Str("severity", alert.Severity).Msg("alerta creada")
	return alert, nil
}

// EvaluateStockTransition aplica la política de umbrales sobre una transición
// de disponibilidad. Solo dispara en cruces descendentes; la primera regla que
// aplica gana. Subidas o permanencia en la misma banda no generan alertas.
func (uc *AlertEngineUseCase) EvaluateStockTransition(ctx context.Context, product *entity.Product, prevAvailable, newAvailable int) ([]*entity.Alert, error) {
	var input *CreateAlertInput

	switch {
	case newAvailable <= 0 && prevAvailable > 0:
		input = &CreateAlertInput{
			Type:     entity.AlertTypeOutOfStock,
			Severity: entity.SeverityHigh,
			Title:    fmt.Sprintf("Producto agotado: %s", product.Name),
			Message:  fmt.Sprintf("El producto %s (SKU: %s) se quedó sin stock.", product.Name, product.SKU),
			Details: map[string]any{
				"sku":               product.SKU,
				"previous_quantity": prevAvailable,
				"current_quantity":  newAvailable,
			},
		}
	case newAvailable <= product.MinStockLevel && prevAvailable > product.MinStockLevel:
		input = &CreateAlertInput{
			Type:     entity.AlertTypeLowStock,
			Severity: entity.SeverityMedium,
			Title:    fmt.Sprintf("Stock bajo: %s", product.Name),
			Message: fmt.Sprintf("El producto %s (SKU: %s) está por agotarse. Disponible: %d, mínimo: %d",
				product.Name, product.SKU, newAvailable, product.MinStockLevel),
			Details: map[string]any{
				"sku":              product.SKU,
				"current_quantity": newAvailable,
				"min_stock_level":  product.MinStockLevel,
				"reorder_point":    product.ReorderPoint,
			},
		}
	case newAvailable <= product.ReorderPoint && prevAvailable > product.ReorderPoint:
		input = &CreateAlertInput{
			Type:     entity.AlertTypeLowStock,
			Severity: entity.SeverityLow,
			Title:    fmt.Sprintf("Punto de reorden alcanzado: %s", product.Name),
			Message: fmt.Sprintf("El producto %s (SKU: %s) llegó a su punto de reorden. Considere reabastecer.",
				product.Name, product.SKU),
			Details: map[string]any{
				"sku":              product.SKU,
				"current_quantity": newAvailable,
				"reorder_point":    product.ReorderPoint,
			},
		}
	}

	if input == nil {
		return nil, nil
	}
	input.ProductID = product.ID
	alert, err := uc.Create(ctx, *input)
	if err != nil {
		return nil, err
	}
	return []*entity.Alert{alert}, nil
}

// Acknowledge pasa una alerta ACTIVE a ACKNOWLEDGED registrando quién y cuándo.
func (uc *AlertEngineUseCase) Acknowledge(ctx context.Context, alertID, userID string) (bool, error) {
	return uc.transition(ctx, alertID, entity.AlertStatusAcknowledged, userID, entity.AlertStatusActive)
}

// Resolve pasa una alerta a RESOLVED. Se permite desde ACTIVE o ACKNOWLEDGED.
func (uc *AlertEngineUseCase) Resolve(ctx context.Context, alertID, userID string) (bool, error) {
	return uc.transition(ctx, alertID, entity.AlertStatusResolved, userID, entity.AlertStatusActive, entity.AlertStatusAcknowledged)
}

// Dismiss descarta una alerta ACTIVE sin resolverla.
func (uc *AlertEngineUseCase) Dismiss(ctx context.Context, alertID, userID string) (bool, error) {
	return uc.transition(ctx, alertID, entity.AlertStatusDismissed, userID, entity.AlertStatusActive)
}

func (uc *AlertEngineUseCase) transition(ctx context.Context, alertID, target, userID string, from ...string) (bool, error) {
	ok, err := uc.alertRepo.Transition(ctx, alertID, target, userID, from...)
	if err != nil {
		return false, err
	}
	if !ok {
		alert, err := uc.alertRepo.GetByID(ctx, alertID)
		if err != nil {
			return false, err
		}
		if alert == nil {
			return false, domain.ErrNotFound
		}
		return false, domain.ErrInvalidTransition
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, alertCacheKey(alertID)); err != nil {
			log.Warn().Err(err).Str("alert_id", alertID).Msg("invalidar caché de alerta")
		}
	}
	log.Info().Str("alert_id", alertID).Str("status", target).Str("user_id", userID).Msg("alerta actualizada")
	return true, nil
}

// CleanupExpired pasa a EXPIRED toda alerta ACTIVE cuya vigencia venció.
// Idempotente: una segunda pasada inmediata no cambia filas.
func (uc *AlertEngineUseCase) CleanupExpired(ctx context.Context) (int, error) {
	n, err := uc.alertRepo.SweepExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int("count", n).Msg("alertas marcadas como expiradas")
	}
	return n, nil
}

// GetActive lista alertas ACTIVE, más recientes primero. Filtros opcionales
// por tipo y severidad; limit por defecto 50, máximo 500.
func (uc *AlertEngineUseCase) GetActive(ctx context.Context, alertType, severity string, limit int) ([]dto.AlertResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	alerts, err := uc.alertRepo.ListActive(ctx, alertType, severity, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, ToAlertResponse(a))
	}
	return out, nil
}

// GetStatistics agrega conteos por tipo, severidad y estado de los últimos
// `days` días (por defecto 7, máximo 365) más la tasa de resolución.
func (uc *AlertEngineUseCase) GetStatistics(ctx context.Context, days int) (*dto.AlertStatisticsResponse, error) {
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}
	since := time.Now().AddDate(0, 0, -days)

	byType, err := uc.alertRepo.CountByTypeSince(ctx, since)
	if err != nil {
		return nil, err
	}
	bySeverity, err := uc.alertRepo.CountBySeveritySince(ctx, since)
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.alertRepo.CountByStatusSince(ctx, since)
	if err != nil {
		return nil, err
	}

	resp := &dto.AlertStatisticsResponse{
		Days:       days,
		ByType:     countsToMap(byType),
		BySeverity: countsToMap(bySeverity),
		ByStatus:   countsToMap(byStatus),
	}
	for _, c := range byType {
		resp.TotalAlerts += c.Count
	}
	resp.ActiveAlerts = resp.ByStatus[entity.AlertStatusActive]
	resp.ResolvedAlerts = resp.ByStatus[entity.AlertStatusResolved]
	if resp.TotalAlerts > 0 {
		resp.ResolutionRate = float64(resp.ResolvedAlerts) / float64(resp.TotalAlerts)
	}
	return resp, nil
}

// dispatch fan-out secuencial por los canales de la severidad. Los fallos de
// canal se registran y no afectan a la alerta ya confirmada.
func (uc *AlertEngineUseCase) dispatch(ctx context.Context, alert *entity.Alert) {
	for _, ch := range uc.registry.For(alert.Severity) {
		if err := ch.Notify(ctx, alert); err != nil {
			log.Error().Err(err).Str("channel", ch.Name()).Str("alert_id", alert.ID).Msg("envío de alerta")
		}
	}
}

// enqueueCreated encola el evento alert.created para el broker. Un fallo solo
// se registra: la alerta ya quedó confirmada y los canales ya la recibieron.
func (uc *AlertEngineUseCase) enqueueCreated(alert *entity.Alert) {
	if uc.outbox == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"alert_id":   alert.ID,
		"type":       alert.Type,
		"severity":   alert.Severity,
		"title":      alert.Title,
		"product_id": alert.ProductID,
		"created_at": alert.CreatedAt,
	})
	if err != nil {
		log.Error().Err(err).Str("alert_id", alert.ID).Msg("serializar evento alert.created")
		return
	}
	event := &entity.OutboxEvent{
		Topic:     entity.TopicAlertCreated,
		Payload:   payload,
		Status:    entity.OutboxStatusPending,
		CreatedAt: alert.CreatedAt,
	}
	if err := uc.outbox.Create(event); err != nil {
		log.Error().Err(err).Str("alert_id", alert.ID).Msg("encolar evento alert.created")
	}
}

func (uc *AlertEngineUseCase) cacheAlert(ctx context.Context, alert *entity.Alert) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, alertCacheKey(alert.ID), ToAlertResponse(alert), alertCacheTTL); err != nil {
		log.Warn().Err(err).Str("alert_id", alert.ID).Msg("cachear alerta")
	}
}

func alertCacheKey(id string) string { return "alert:" + id }

func countsToMap(counts []repository.AlertStatusCount) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Key] = c.Count
	}
	return m
}

// ToAlertResponse convierte la entidad al DTO de salida.
func ToAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:             a.ID,
		Type:           a.Type,
		Severity:       a.Severity,
		Status:         a.Status,
		Title:          a.Title,
		Message:        a.Message,
		Details:        a.Details,
		ProductID:      a.ProductID,
		SaleID:         a.SaleID,
		CreatedAt:      a.CreatedAt,
		ExpiresAt:      a.ExpiresAt,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
	}
}
