package entity

import "time"

// Tipos de predicción.
const (
	PredictionTypeRushHour       = "rush_hour"
	PredictionTypeDemandForecast = "demand_forecast"
)

// Estados de una predicción.
const (
	PredictionStatusActive      = "active"
	PredictionStatusExpired     = "expired"
	PredictionStatusVerified    = "verified"
	PredictionStatusInvalidated = "invalidated"
)

// Prediction es una predicción horaria de demanda persistida para verificación
// posterior. Inmutable salvo los campos de verificación.
type Prediction struct {
	ID              string
	Type            string
	PredictedValue  float64
	ConfidenceScore float64 // en [0,1]
	PredictionFor   time.Time
	HorizonHours    int
	ModelVersion    string
	Status          string
	IsRushHour      bool
	RushProbability float64
	ActualValue     *float64
	AccuracyScore   *float64
	VerifiedAt      *time.Time
	CreatedAt       time.Time
}

// Verify marca la predicción como verificada contra el valor real observado.
func (p *Prediction) Verify(actual, accuracy float64, now time.Time) {
	p.ActualValue = &actual
	p.AccuracyScore = &accuracy
	p.VerifiedAt = &now
	p.Status = PredictionStatusVerified
}
