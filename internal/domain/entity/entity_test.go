package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shoptrack/pos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Product: umbrales y clasificación de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateThresholds(t *testing.T) {
	cases := []struct {
		name              string
		min, reorder, max int
		want              bool
	}{
		{"orden correcto", 10, 20, 100, true},
		{"todos en cero", 0, 0, 0, true},
		{"mínimo igual a reorden", 10, 10, 100, true},
		{"mínimo negativo", -1, 20, 100, false},
		{"reorden por debajo del mínimo", 20, 10, 100, false},
		{"máximo por debajo del reorden", 10, 20, 15, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := entity.Product{
				MinStockLevel: tc.min,
				ReorderPoint:  tc.reorder,
				MaxStockLevel: tc.max,
			}
			assert.Equal(t, tc.want, p.ValidateThresholds())
		})
	}
}

func TestStockStatus_Bandas(t *testing.T) {
	p := entity.Product{MinStockLevel: 10, ReorderPoint: 20, MaxStockLevel: 100}

	cases := []struct {
		available int
		want      string
	}{
		{0, entity.StockStatusOutOfStock},
		{-3, entity.StockStatusOutOfStock},
		{1, entity.StockStatusLowStock},
		{10, entity.StockStatusLowStock},
		{11, entity.StockStatusReorderNeeded},
		{20, entity.StockStatusReorderNeeded},
		{21, entity.StockStatusNormal},
		{99, entity.StockStatusNormal},
		{100, entity.StockStatusOverstocked},
		{150, entity.StockStatusOverstocked},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.StockStatus(tc.available), "disponible=%d", tc.available)
	}
}

func TestStockStatus_SinMaximoNoHaySobrestock(t *testing.T) {
	p := entity.Product{MinStockLevel: 5, ReorderPoint: 10, MaxStockLevel: 0}
	assert.Equal(t, entity.StockStatusNormal, p.StockStatus(5000),
		"con máximo en cero nunca se clasifica sobrestock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Alert: ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{entity.AlertStatusActive, entity.AlertStatusAcknowledged, true},
		{entity.AlertStatusActive, entity.AlertStatusResolved, true},
		{entity.AlertStatusActive, entity.AlertStatusDismissed, true},
		{entity.AlertStatusActive, entity.AlertStatusExpired, true},
		{entity.AlertStatusAcknowledged, entity.AlertStatusResolved, true},
		{entity.AlertStatusAcknowledged, entity.AlertStatusDismissed, false},
		{entity.AlertStatusAcknowledged, entity.AlertStatusExpired, false},
		{entity.AlertStatusResolved, entity.AlertStatusActive, false},
		{entity.AlertStatusResolved, entity.AlertStatusAcknowledged, false},
		{entity.AlertStatusDismissed, entity.AlertStatusResolved, false},
		{entity.AlertStatusExpired, entity.AlertStatusResolved, false},
	}
	for _, tc := range cases {
		a := entity.Alert{Status: tc.from}
		assert.Equal(t, tc.want, a.CanTransition(tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestAlertIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&entity.Alert{}).IsExpired(now), "sin fecha de expiración nunca expira")
	assert.True(t, (&entity.Alert{ExpiresAt: &past}).IsExpired(now))
	assert.True(t, (&entity.Alert{ExpiresAt: &now}).IsExpired(now), "el instante exacto ya cuenta como expirada")
	assert.False(t, (&entity.Alert{ExpiresAt: &future}).IsExpired(now))
}

// ──────────────────────────────────────────────────────────────────────────────
// InventoryLevel y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecomputeAvailable(t *testing.T) {
	l := entity.InventoryLevel{CurrentQuantity: 10, ReservedQuantity: 3}
	l.RecomputeAvailable()
	assert.Equal(t, 7, l.AvailableQuantity)

	// La reserva no puede dejar el disponible en negativo
	l = entity.InventoryLevel{CurrentQuantity: 2, ReservedQuantity: 5}
	l.RecomputeAvailable()
	assert.Equal(t, 0, l.AvailableQuantity)
}

func TestValidMovementType(t *testing.T) {
	valid := []string{
		entity.MovementTypePurchase,
		entity.MovementTypeSale,
		entity.MovementTypeAdjustment,
		entity.MovementTypeReturn,
		entity.MovementTypeDamaged,
		entity.MovementTypeExpired,
	}
	for _, v := range valid {
		assert.True(t, entity.ValidMovementType(v), v)
	}
	assert.False(t, entity.ValidMovementType("teleport"))
	assert.False(t, entity.ValidMovementType(""))
}

func TestValidPaymentMethod(t *testing.T) {
	valid := []string{
		entity.PaymentMethodCash,
		entity.PaymentMethodCard,
		entity.PaymentMethodMobile,
		entity.PaymentMethodOther,
	}
	for _, v := range valid {
		assert.True(t, entity.ValidPaymentMethod(v), v)
	}
	assert.False(t, entity.ValidPaymentMethod("bitcoin"))
	assert.False(t, entity.ValidPaymentMethod(""))
}

func TestPredictionVerify(t *testing.T) {
	p := entity.Prediction{Status: entity.PredictionStatusActive, PredictedValue: 10}
	now := time.Now()
	p.Verify(8, 0.8, now)

	assert.Equal(t, entity.PredictionStatusVerified, p.Status)
	assert.Equal(t, 8.0, *p.ActualValue)
	assert.Equal(t, 0.8, *p.AccuracyScore)
	assert.True(t, p.VerifiedAt.Equal(now))
}
