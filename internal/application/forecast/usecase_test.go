package forecast_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/forecast"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
	"github.com/shoptrack/pos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: corpus sintético y dobles de analítica y alertas
// ──────────────────────────────────────────────────────────────────────────────

// analyticsStub responde las consultas del forecaster con datos fijos.
type analyticsStub struct {
	repository.AnalyticsRepository
	buckets  []repository.HourlyBucketRow
	context  repository.HourContext
	actual   int
	countErr error
}

func (s *analyticsStub) GetHourlyBuckets(ctx context.Context, days int) ([]repository.HourlyBucketRow, error) {
	return s.buckets, nil
}

func (s *analyticsStub) GetSameHourContext(ctx context.Context, now time.Time, hourOfDay int) (repository.HourContext, error) {
	return s.context, nil
}

func (s *analyticsStub) GetTransactionCountForHour(ctx context.Context, hourStart time.Time) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.actual, nil
}

// captureAlerts registra las alertas que el forecaster pide crear.
type captureAlerts struct {
	mu     sync.Mutex
	inputs []alerting.CreateAlertInput
}

func (c *captureAlerts) Create(ctx context.Context, input alerting.CreateAlertInput) (*entity.Alert, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, input)
	return &entity.Alert{ID: "alert-capturada", Type: input.Type}, nil
}

func (c *captureAlerts) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inputs)
}

type forecastFixture struct {
	uc        *forecast.DemandForecasterUseCase
	analytics *analyticsStub
	preds     *memory.PredictionRepo
	alerts    *captureAlerts
	store     *forecast.ArtifactStore
}

func newForecastFixture(t *testing.T) *forecastFixture {
	t.Helper()
	analytics := &analyticsStub{}
	preds := memory.NewPredictionRepo()
	alerts := &captureAlerts{}
	store := forecast.NewArtifactStore(filepath.Join(t.TempDir(), "model.json"))
	uc := forecast.NewDemandForecasterUseCase(analytics, preds, alerts, store, 0)
	return &forecastFixture{uc: uc, analytics: analytics, preds: preds, alerts: alerts, store: store}
}

// syntheticBuckets genera `days` días de cubetas horarias (6h a 21h) con un
// patrón determinista: las transacciones varían con la hora, el ticket
// promedio es constante (15) y monto y unidades son proporcionales.
func syntheticBuckets(days int) []repository.HourlyBucketRow {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	rows := make([]repository.HourlyBucketRow, 0, days*16)
	for d := 0; d < days; d++ {
		for h := 6; h <= 21; h++ {
			count := 2 + h%13
			rows = append(rows, repository.HourlyBucketRow{
				Hour:             start.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				TotalAmount:      decimal.NewFromInt(int64(count * 15)),
				TransactionCount: count,
				ItemsCount:       count * 2,
			})
		}
	}
	return rows
}

// hourContext arma un contexto histórico coherente con el corpus sintético.
func hourContext(avgTransactions float64) repository.HourContext {
	return repository.HourContext{
		AvgAmount:           avgTransactions * 15,
		AvgTransactions:     avgTransactions,
		AvgItems:            avgTransactions * 2,
		AvgTransactionValue: 15,
		SampleCount:         20,
	}
}

func (f *forecastFixture) train(t *testing.T) *forecast.RetrainResult {
	t.Helper()
	f.analytics.buckets = syntheticBuckets(30)
	result, err := f.uc.Retrain(context.Background())
	require.NoError(t, err)
	require.False(t, result.Skipped)
	return result
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Retrain
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: con menos de 100 cubetas no se entrena y el modelo previo (ninguno)
// queda intacto.
func TestRetrain_CorpusInsuficiente(t *testing.T) {
	f := newForecastFixture(t)
	f.analytics.buckets = syntheticBuckets(3) // 48 cubetas

	result, err := f.uc.Retrain(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 48, result.SampleCount)

	status := f.uc.ModelStatus()
	assert.False(t, status.Trained)

	_, err = f.uc.PredictRushHours(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrModelNotTrained)
}

// Caso 2: con corpus suficiente entrena, versiona y publica el modelo.
func TestRetrain_EntrenaYPublica(t *testing.T) {
	f := newForecastFixture(t)
	result := f.train(t)

	assert.Equal(t, 480, result.SampleCount)
	assert.True(t, strings.HasPrefix(result.Version, "1."), "versión %q", result.Version)
	assert.False(t, result.TrainedAt.IsZero())
	assert.Less(t, result.MAE, 1.0, "el corpus es exactamente lineal, el MAE debe ser chico")

	status := f.uc.ModelStatus()
	assert.True(t, status.Trained)
	assert.Equal(t, result.Version, status.ModelVersion)
	assert.Equal(t, 480, status.SampleCount)
	assert.Equal(t, forecast.DefaultRushThreshold, status.RushThreshold)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PredictRushHours
// ──────────────────────────────────────────────────────────────────────────────

func TestPredictRushHours_SinModelo(t *testing.T) {
	f := newForecastFixture(t)
	_, err := f.uc.PredictRushHours(context.Background(), 24)
	assert.ErrorIs(t, err, domain.ErrModelNotTrained)
}

// Caso: el contexto histórico promete ~12 transacciones por hora, muy por
// encima del umbral (5): cada hora se marca pico, se persiste y dispara alerta.
func TestPredictRushHours_HoraPico(t *testing.T) {
	f := newForecastFixture(t)
	f.train(t)
	f.analytics.context = hourContext(12)

	preds, err := f.uc.PredictRushHours(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, preds, 24, "por defecto se predicen 24 horas")

	for _, p := range preds {
		assert.GreaterOrEqual(t, p.PredictedTransactions, 0.0)
		assert.InDelta(t, 12.0, p.PredictedTransactions, 4.0, "hora %s", p.Hour)
		assert.GreaterOrEqual(t, p.Confidence, 0.0)
		assert.LessOrEqual(t, p.Confidence, 1.0)
		assert.True(t, p.IsRushHour, "hora %s debería ser pico", p.Hour)
		assert.Greater(t, p.RushProbability, 0.8)
	}

	// Una alerta RUSH_HOUR por hora prevista
	assert.Equal(t, 24, f.alerts.count())
	assert.Equal(t, entity.AlertTypeRushHour, f.alerts.inputs[0].Type)
	assert.Equal(t, entity.SeverityMedium, f.alerts.inputs[0].Severity)

	// Cada predicción queda persistida como ACTIVE
	now := time.Now().UTC()
	stored, err := f.preds.ListActiveInRange(context.Background(), entity.PredictionTypeRushHour,
		now.Add(-time.Hour), now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Len(t, stored, 24)
}

// Caso: horas tranquilas (~2 transacciones) no llegan al umbral: sin alertas.
func TestPredictRushHours_HoraTranquila(t *testing.T) {
	f := newForecastFixture(t)
	f.train(t)
	f.analytics.context = hourContext(2)

	preds, err := f.uc.PredictRushHours(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, preds, 6)

	for _, p := range preds {
		assert.False(t, p.IsRushHour, "hora %s no debería ser pico (%.2f)", p.Hour, p.PredictedTransactions)
		assert.Less(t, p.RushProbability, 0.8)
	}
	assert.Zero(t, f.alerts.count(), "sin horas pico no hay alertas")
}

func TestPredictRushHours_AcotaHorizonte(t *testing.T) {
	f := newForecastFixture(t)
	f.train(t)
	f.analytics.context = hourContext(2)

	preds, err := f.uc.PredictRushHours(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, preds, 168, "el horizonte máximo es una semana")
}

func TestGetStoredPredictions_SoloActivasOrdenadas(t *testing.T) {
	f := newForecastFixture(t)
	f.train(t)
	f.analytics.context = hourContext(2)

	_, err := f.uc.PredictRushHours(context.Background(), 12)
	require.NoError(t, err)

	stored, err := f.uc.GetStoredPredictions(context.Background(), 24)
	require.NoError(t, err)
	// La predicción de la hora en curso (truncada) puede quedar fuera de la
	// ventana [ahora, ahora+24h]
	assert.GreaterOrEqual(t, len(stored), 11)
	for i := 1; i < len(stored); i++ {
		assert.False(t, stored[i].PredictionFor.Before(stored[i-1].PredictionFor), "orden ascendente")
	}
	for _, p := range stored {
		assert.Equal(t, entity.PredictionStatusActive, p.Status)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests VerifyPredictions
// ──────────────────────────────────────────────────────────────────────────────

// Caso: la predicción cuya hora ya transcurrió completa se contrasta con las
// ventas reales; las futuras quedan activas a la espera.
func TestVerifyPredictions_MarcaVerificadas(t *testing.T) {
	f := newForecastFixture(t)
	now := time.Now().UTC()

	past := &entity.Prediction{
		Type:           entity.PredictionTypeRushHour,
		PredictedValue: 10,
		PredictionFor:  now.Add(-3 * time.Hour),
		Status:         entity.PredictionStatusActive,
		CreatedAt:      now.Add(-4 * time.Hour),
	}
	future := &entity.Prediction{
		Type:           entity.PredictionTypeRushHour,
		PredictedValue: 6,
		PredictionFor:  now.Add(2 * time.Hour),
		Status:         entity.PredictionStatusActive,
		CreatedAt:      now,
	}
	require.NoError(t, f.preds.Create(past))
	require.NoError(t, f.preds.Create(future))
	f.analytics.actual = 8

	verified, err := f.uc.VerifyPredictions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, verified)

	// La futura sigue activa; la pasada ya no está pendiente
	active, err := f.preds.ListActiveInRange(context.Background(), entity.PredictionTypeRushHour, now, now.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, future.ID, active[0].ID)

	verified, err = f.uc.VerifyPredictions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, verified, "la segunda pasada no encuentra pendientes")
}

// Caso: una predicción vieja que no se pudo contrastar termina expirada en la
// misma pasada (más de 7 días sin verificar).
func TestVerifyPredictions_ExpiraAntiguas(t *testing.T) {
	f := newForecastFixture(t)
	now := time.Now().UTC()

	stale := &entity.Prediction{
		Type:           entity.PredictionTypeRushHour,
		PredictedValue: 4,
		PredictionFor:  now.AddDate(0, 0, -8),
		Status:         entity.PredictionStatusActive,
		CreatedAt:      now.AddDate(0, 0, -8),
	}
	require.NoError(t, f.preds.Create(stale))
	f.analytics.countErr = errors.New("la base no responde")

	verified, err := f.uc.VerifyPredictions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, verified)

	pending, err := f.preds.ListPendingVerification(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, pending, "la predicción vieja debe quedar expirada, no pendiente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del artefacto persistido
// ──────────────────────────────────────────────────────────────────────────────

// Caso: un proceso nuevo carga el artefacto del disco y predice sin reentrenar.
func TestLoadArtifact_RecuperaModeloEntreProcesos(t *testing.T) {
	f := newForecastFixture(t)
	result := f.train(t)

	restarted := forecast.NewDemandForecasterUseCase(f.analytics, f.preds, nil, f.store, 0)
	require.NoError(t, restarted.LoadArtifact())

	status := restarted.ModelStatus()
	assert.True(t, status.Trained)
	assert.Equal(t, result.Version, status.ModelVersion)
	assert.Equal(t, 480, status.SampleCount)
	assert.InDelta(t, result.MAE, status.MAE, 1e-9)

	f.analytics.context = hourContext(2)
	preds, err := restarted.PredictRushHours(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, preds, 3)
}

func TestLoadArtifact_SinArchivo(t *testing.T) {
	f := newForecastFixture(t)
	require.NoError(t, f.uc.LoadArtifact(), "sin artefacto no es un error")
	assert.False(t, f.uc.ModelStatus().Trained)
}

// Caso: un artefacto con otra cantidad de features (modelo viejo) se rechaza
// en vez de cargarse a medias.
func TestLoadArtifact_Incompatible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	raw := `{"version":"1.0","scaler":{"mean":[1,2],"std":[1,1]},"members":[]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	uc := forecast.NewDemandForecasterUseCase(&analyticsStub{}, memory.NewPredictionRepo(), nil,
		forecast.NewArtifactStore(path), 0)
	assert.Error(t, uc.LoadArtifact())
	assert.False(t, uc.ModelStatus().Trained)
}
