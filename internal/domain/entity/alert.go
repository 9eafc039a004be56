package entity

import (
	"encoding/json"
	"time"
)

// Tipos de alerta.
const (
	AlertTypeLowStock    = "low_stock"
	AlertTypeOutOfStock  = "out_of_stock"
	AlertTypeRushHour    = "rush_hour"
	AlertTypeHighQueue   = "high_queue"
	AlertTypeSystemError = "system_error"
	AlertTypeMaintenance = "maintenance"
)

// Severidades de alerta, de menor a mayor.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Estados del ciclo de vida de una alerta.
// ACTIVE es el único estado no terminal desde el que se permite transicionar;
// RESOLVED se permite además desde ACKNOWLEDGED (ciclo de vida en dos pasos).
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
	AlertStatusDismissed    = "dismissed"
	AlertStatusExpired      = "expired"
)

// Alert representa una alerta operativa generada por umbrales de stock,
// predicciones de demanda o eventos del sistema.
type Alert struct {
	ID             string
	Type           string
	Severity       string
	Status         string
	Title          string
	Message        string
	Details        json.RawMessage
	ProductID      string
	SaleID         string
	CreatedAt      time.Time
	ExpiresAt      *time.Time
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	ResolvedBy     string
	ResolvedAt     *time.Time
}

// CanTransition indica si la alerta admite pasar al estado destino.
// Reglas: desde ACTIVE se puede ir a ACKNOWLEDGED, RESOLVED, DISMISSED o EXPIRED;
// desde ACKNOWLEDGED solo a RESOLVED. Los estados terminales no admiten salida.
func (a *Alert) CanTransition(target string) bool {
	switch a.Status {
	case AlertStatusActive:
		switch target {
		case AlertStatusAcknowledged, AlertStatusResolved, AlertStatusDismissed, AlertStatusExpired:
			return true
		}
	case AlertStatusAcknowledged:
		return target == AlertStatusResolved
	}
	return false
}

// IsExpired indica si la alerta ya pasó su fecha de expiración.
func (a *Alert) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}
