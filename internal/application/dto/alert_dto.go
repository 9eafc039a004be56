package dto

import (
	"encoding/json"
	"time"
)

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Severity       string          `json:"severity"`
	Status         string          `json:"status"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Details        json.RawMessage `json:"details,omitempty"`
	ProductID      string          `json:"product_id,omitempty"`
	SaleID         string          `json:"sale_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	AcknowledgedBy string          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
}

// AlertListResponse respuesta de GET /api/alerts.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Total int             `json:"total"`
}

// AlertStatisticsResponse conteos agregados de GET /api/alerts/statistics.
type AlertStatisticsResponse struct {
	Days           int            `json:"days"`
	TotalAlerts    int            `json:"total_alerts"`
	ActiveAlerts   int            `json:"active_alerts"`
	ResolvedAlerts int            `json:"resolved_alerts"`
	ResolutionRate float64        `json:"resolution_rate"`
	ByType         map[string]int `json:"by_type"`
	BySeverity     map[string]int `json:"by_severity"`
	ByStatus       map[string]int `json:"by_status"`
}
