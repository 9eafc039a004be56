package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta nueva.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	details := alert.Details
	if len(details) == 0 {
		details = []byte(`{}`)
	}
	productID := (*string)(nil)
	if alert.ProductID != "" {
		productID = &alert.ProductID
	}
	saleID := (*string)(nil)
	if alert.SaleID != "" {
		saleID = &alert.SaleID
	}
	query := `
		INSERT INTO alerts (id, type, severity, status, title, message, details, product_id, sale_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.Type, alert.Severity, alert.Status, alert.Title, alert.Message,
		details, productID, saleID, alert.CreatedAt, alert.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	query := alertSelect + ` WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// FindActiveByTypeAndProduct localiza la alerta ACTIVE más reciente del mismo
// tipo para el mismo producto (deduplicación). productID vacío busca alertas
// sin producto asociado.
func (r *AlertRepo) FindActiveByTypeAndProduct(ctx context.Context, alertType, productID string) (*entity.Alert, error) {
	query := alertSelect + ` WHERE type = $1 AND status = 'active'`
	args := []any{alertType}
	if productID != "" {
		query += ` AND product_id = $2`
		args = append(args, productID)
	} else {
		query += ` AND product_id IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT 1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active alert: %w", err)
	}
	return a, nil
}

// ListActive lista alertas ACTIVE, más recientes primero, con filtros
// opcionales por tipo y severidad.
func (r *AlertRepo) ListActive(ctx context.Context, alertType, severity string, limit int) ([]*entity.Alert, error) {
	query := alertSelect + ` WHERE status = 'active'`
	args := []any{}
	pos := 1
	if alertType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, alertType)
		pos++
	}
	if severity != "" {
		query += fmt.Sprintf(" AND severity = $%d", pos)
		args = append(args, severity)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Transition cambia el estado solo si la fila sigue en alguno de los estados
// origen (compare-and-set en un solo UPDATE). Devuelve false si la fila ya no
// estaba en un estado origen o no existe.
func (r *AlertRepo) Transition(ctx context.Context, id, target, actor string, from ...string) (bool, error) {
	var query string
	var args []any
	switch target {
	case entity.AlertStatusAcknowledged:
		query = `
			UPDATE alerts SET status = $2, acknowledged_by = $3, acknowledged_at = now()
			WHERE id = $1 AND status = ANY($4)`
		args = []any{id, target, actor, from}
	case entity.AlertStatusResolved, entity.AlertStatusDismissed:
		query = `
			UPDATE alerts SET status = $2, resolved_by = $3, resolved_at = now()
			WHERE id = $1 AND status = ANY($4)`
		args = []any{id, target, actor, from}
	default:
		query = `
			UPDATE alerts SET status = $2
			WHERE id = $1 AND status = ANY($3)`
		args = []any{id, target, from}
	}
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("transition alert: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// SweepExpired pasa a EXPIRED toda alerta ACTIVE cuya expiración ya venció.
// Idempotente; devuelve cuántas filas cambió.
func (r *AlertRepo) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE alerts SET status = 'expired'
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= $1`
	cmd, err := r.q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("sweep expired alerts: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// CountByTypeSince cuenta alertas creadas desde la fecha, agrupadas por tipo.
func (r *AlertRepo) CountByTypeSince(ctx context.Context, since time.Time) ([]repository.AlertStatusCount, error) {
	return r.countSince(ctx, "type", since)
}

// CountBySeveritySince cuenta alertas creadas desde la fecha, agrupadas por severidad.
func (r *AlertRepo) CountBySeveritySince(ctx context.Context, since time.Time) ([]repository.AlertStatusCount, error) {
	return r.countSince(ctx, "severity", since)
}

// CountByStatusSince cuenta alertas creadas desde la fecha, agrupadas por estado.
func (r *AlertRepo) CountByStatusSince(ctx context.Context, since time.Time) ([]repository.AlertStatusCount, error) {
	return r.countSince(ctx, "status", since)
}

// countSince agrupa por una columna fija (type, severity o status); nunca
// recibe entrada del usuario.
func (r *AlertRepo) countSince(ctx context.Context, column string, since time.Time) ([]repository.AlertStatusCount, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM alerts WHERE created_at >= $1 GROUP BY %s`, column, column)
	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count alerts by %s: %w", column, err)
	}
	defer rows.Close()
	var list []repository.AlertStatusCount
	for rows.Next() {
		var c repository.AlertStatusCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scan alert count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

const alertSelect = `
	SELECT id, type, severity, status, title, message, details, product_id, sale_id,
	       created_at, expires_at, acknowledged_by, acknowledged_at, resolved_by, resolved_at
	FROM alerts`

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var productID, saleID, acknowledgedBy, resolvedBy *string
	err := row.Scan(
		&a.ID, &a.Type, &a.Severity, &a.Status, &a.Title, &a.Message, &a.Details,
		&productID, &saleID, &a.CreatedAt, &a.ExpiresAt,
		&acknowledgedBy, &a.AcknowledgedAt, &resolvedBy, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if productID != nil {
		a.ProductID = *productID
	}
	if saleID != nil {
		a.SaleID = *saleID
	}
	if acknowledgedBy != nil {
		a.AcknowledgedBy = *acknowledgedBy
	}
	if resolvedBy != nil {
		a.ResolvedBy = *resolvedBy
	}
	return &a, nil
}
