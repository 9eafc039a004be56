package forecast

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoptrack/pos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escalado
// ──────────────────────────────────────────────────────────────────────────────

func TestFitScaler_EstandarizaYProtegeConstantes(t *testing.T) {
	X := [][]float64{
		{2, 7},
		{4, 7},
		{6, 7},
	}
	s := fitScaler(X)

	assert.InDelta(t, 4.0, s.Mean[0], 1e-9)
	assert.InDelta(t, 7.0, s.Mean[1], 1e-9)
	// Columna constante: la desviación se fuerza a 1 para no dividir por cero
	assert.InDelta(t, 1.0, s.Std[1], 1e-9)

	z := s.transform([]float64{6, 7})
	assert.InDelta(t, (6.0-4.0)/s.Std[0], z[0], 1e-9)
	assert.InDelta(t, 0.0, z[1], 1e-9, "la constante queda en cero tras centrar")
}

func TestTransformAll_MediaCeroDesviacionUno(t *testing.T) {
	X := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}, {5, 50}}
	s := fitScaler(X)
	Z := s.transformAll(X)

	for j := 0; j < 2; j++ {
		col := make([]float64, len(Z))
		for i := range Z {
			col[i] = Z[i][j]
		}
		var sum float64
		for _, v := range col {
			sum += v
		}
		mean := sum / float64(len(col))
		assert.InDelta(t, 0.0, mean, 1e-9)
		assert.InDelta(t, 1.0, popStdDev(col, mean), 1e-9)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Regresión ridge y ensamble
// ──────────────────────────────────────────────────────────────────────────────

// Caso: con datos exactamente lineales el ridge recupera pesos e intercepto
// con un sesgo despreciable (lambda pequeña frente al tamaño del corpus).
func TestFitRidge_RecuperaRelacionLineal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	X := make([][]float64, 200)
	y := make([]float64, 200)
	for i := range X {
		x1 := rng.Float64() * 10
		x2 := rng.Float64() * 10
		X[i] = []float64{x1, x2}
		y[i] = 2*x1 - 1.5*x2 + 3
	}

	m, err := fitRidge(X, y, ridgeLambda)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.Weights[0], 0.05)
	assert.InDelta(t, -1.5, m.Weights[1], 0.05)
	assert.InDelta(t, 3.0, m.Intercept, 0.2)
}

func TestMemberPredict_ProductoPunto(t *testing.T) {
	m := member{Weights: []float64{2, -1}, Intercept: 0.5}
	assert.InDelta(t, 2*3-1*4+0.5, m.predict([]float64{3, 4}), 1e-9)
}

func TestEnsemblePredict_MediaYDispersion(t *testing.T) {
	e := newEnsembleModel([]member{
		{Weights: []float64{1}, Intercept: 0},
		{Weights: []float64{3}, Intercept: 0},
	})
	mean, std := e.Predict([]float64{2})
	// Predicciones 2 y 6: media 4, desviación poblacional 2
	assert.InDelta(t, 4.0, mean, 1e-9)
	assert.InDelta(t, 2.0, std, 1e-9)
}

func TestEnsemblePredict_SinMiembros(t *testing.T) {
	e := newEnsembleModel(nil)
	mean, std := e.Predict([]float64{1})
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

// Caso: misma semilla, mismo corpus, mismo ensamble. El reentrenamiento es
// reproducible de punta a punta.
func TestTrainEnsemble_Determinista(t *testing.T) {
	rng1 := rand.New(rand.NewSource(trainSeed))
	rng2 := rand.New(rand.NewSource(trainSeed))
	X := make([][]float64, 60)
	y := make([]float64, 60)
	base := rand.New(rand.NewSource(11))
	for i := range X {
		x := base.Float64() * 5
		X[i] = []float64{x}
		y[i] = 3*x + 1
	}

	m1, err := trainEnsemble(X, y, rng1)
	require.NoError(t, err)
	m2, err := trainEnsemble(X, y, rng2)
	require.NoError(t, err)

	require.Len(t, m1.members, ensembleSize)
	require.Len(t, m2.members, ensembleSize)
	for i := range m1.members {
		assert.Equal(t, m1.members[i].Weights, m2.members[i].Weights)
		assert.Equal(t, m1.members[i].Intercept, m2.members[i].Intercept)
	}
}

func TestTrainTestSplit_ProporcionYSinPerdida(t *testing.T) {
	X := make([][]float64, 10)
	y := make([]float64, 10)
	for i := range X {
		X[i] = []float64{float64(i)}
		y[i] = float64(i)
	}
	Xtr, Xte, ytr, yte := trainTestSplit(X, y, rand.New(rand.NewSource(1)))

	assert.Len(t, Xte, 2, "el holdout es la quinta parte de 10 filas")
	assert.Len(t, Xtr, 8)
	assert.Len(t, yte, 2)
	assert.Len(t, ytr, 8)

	var sum float64
	for _, v := range append(append([]float64{}, ytr...), yte...) {
		sum += v
	}
	assert.InDelta(t, 45.0, sum, 1e-9, "cada fila debe quedar en exactamente una partición")
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas auxiliares
// ──────────────────────────────────────────────────────────────────────────────

func TestPopStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, popStdDev(xs, 5.0), 1e-9)
	assert.Zero(t, popStdDev(nil, 0))
}

func TestConfidenceFromDispersion_Acotada(t *testing.T) {
	cases := []struct {
		name      string
		mean, std float64
		want      float64
	}{
		{"sin dispersión", 10, 0, 1.0},
		{"dispersión media", 10, 5, 0.5},
		{"dispersión mayor que la media", 2, 10, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, confidenceFromDispersion(tc.mean, tc.std), 1e-3)
		})
	}
}

func TestPredictionAccuracy(t *testing.T) {
	cases := []struct {
		name              string
		predicted, actual float64
		want              float64
	}{
		{"exacta", 10, 10, 1.0},
		{"desvío parcial", 5, 4, 0.75},
		{"muy desviada se acota en cero", 12, 0, 0.0},
		{"hora sin ventas usa denominador 1", 0.5, 0, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, predictionAccuracy(tc.predicted, tc.actual), 1e-9)
		})
	}
}

func TestClampHours(t *testing.T) {
	assert.Equal(t, defaultHoursAhead, clampHours(0))
	assert.Equal(t, defaultHoursAhead, clampHours(-5))
	assert.Equal(t, 48, clampHours(48))
	assert.Equal(t, maxHoursAhead, clampHours(500))
}

// ──────────────────────────────────────────────────────────────────────────────
// Features
// ──────────────────────────────────────────────────────────────────────────────

func TestMondayWeekday(t *testing.T) {
	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, mondayWeekday(monday))
	assert.Equal(t, 5, mondayWeekday(saturday))
	assert.Equal(t, 6, mondayWeekday(sunday))
}

func TestCalendarFeatures_Bordes(t *testing.T) {
	day := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC) // miércoles

	cases := []struct {
		hour         int
		wantBusiness float64
	}{
		{8, 0},
		{9, 1},
		{17, 1},
		{18, 0},
	}
	for _, tc := range cases {
		hourOfDay, dow, weekend, business := calendarFeatures(day.Add(time.Duration(tc.hour) * time.Hour))
		assert.InDelta(t, float64(tc.hour), hourOfDay, 1e-9)
		assert.InDelta(t, 2.0, dow, 1e-9)
		assert.Zero(t, weekend)
		assert.InDelta(t, tc.wantBusiness, business, 1e-9, "hora %d", tc.hour)
	}

	_, _, weekend, _ := calendarFeatures(time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC))
	assert.InDelta(t, 1.0, weekend, 1e-9, "sábado es fin de semana")
}

func TestBucketFeatures_TicketPromedio(t *testing.T) {
	b := repository.HourlyBucketRow{
		Hour:             time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), // lunes 14h
		TotalAmount:      decimal.RequireFromString("100.00"),
		TransactionCount: 4,
		ItemsCount:       9,
	}
	v := bucketFeatures(b)

	require.Len(t, v, numFeatures)
	assert.InDelta(t, 14.0, v[0], 1e-9)
	assert.InDelta(t, 0.0, v[1], 1e-9, "lunes = 0")
	assert.InDelta(t, 0.0, v[2], 1e-9)
	assert.InDelta(t, 1.0, v[3], 1e-9, "14h es horario comercial")
	assert.InDelta(t, 100.0, v[4], 1e-9)
	assert.InDelta(t, 4.0, v[5], 1e-9)
	assert.InDelta(t, 9.0, v[6], 1e-9)
	assert.InDelta(t, 25.0, v[7], 1e-9, "ticket promedio 100/4")
}

func TestBucketFeatures_SinTransacciones(t *testing.T) {
	b := repository.HourlyBucketRow{
		Hour:        time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC),
		TotalAmount: decimal.Zero,
	}
	v := bucketFeatures(b)
	assert.Zero(t, v[7], "sin transacciones el ticket promedio es cero")
}

func TestPredictionFeatures_UsaContextoHistorico(t *testing.T) {
	target := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC) // domingo 12h
	ctx := repository.HourContext{
		AvgAmount:           180,
		AvgTransactions:     12,
		AvgItems:            24,
		AvgTransactionValue: 15,
	}
	v := predictionFeatures(target, ctx)

	require.Len(t, v, numFeatures)
	assert.InDelta(t, 12.0, v[0], 1e-9)
	assert.InDelta(t, 6.0, v[1], 1e-9, "domingo = 6")
	assert.InDelta(t, 1.0, v[2], 1e-9)
	assert.InDelta(t, 180.0, v[4], 1e-9)
	assert.InDelta(t, 12.0, v[5], 1e-9)
	assert.InDelta(t, 24.0, v[6], 1e-9)
	assert.InDelta(t, 15.0, v[7], 1e-9)
}

func TestTrainingMatrix_TargetEsTransacciones(t *testing.T) {
	buckets := []repository.HourlyBucketRow{
		{Hour: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), TotalAmount: decimal.NewFromInt(60), TransactionCount: 4, ItemsCount: 8},
		{Hour: time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC), TotalAmount: decimal.NewFromInt(90), TransactionCount: 6, ItemsCount: 12},
	}
	X, y := trainingMatrix(buckets)

	require.Len(t, X, 2)
	require.Len(t, y, 2)
	assert.InDelta(t, 4.0, y[0], 1e-9)
	assert.InDelta(t, 6.0, y[1], 1e-9)
}
