package dto

import "time"

// PredictionResponse salida de una predicción almacenada.
type PredictionResponse struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	PredictedValue  float64    `json:"predicted_value"`
	ConfidenceScore float64    `json:"confidence_score"`
	PredictionFor   time.Time  `json:"prediction_for"`
	HorizonHours    int        `json:"horizon_hours"`
	ModelVersion    string     `json:"model_version"`
	Status          string     `json:"status"`
	IsRushHour      bool       `json:"is_rush_hour"`
	RushProbability float64    `json:"rush_probability"`
	ActualValue     *float64   `json:"actual_value,omitempty"`
	AccuracyScore   *float64   `json:"accuracy_score,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// HourPredictionDTO predicción en vivo para una hora futura.
type HourPredictionDTO struct {
	Hour                  time.Time `json:"hour"`
	PredictedTransactions float64   `json:"predicted_transactions"`
	Confidence            float64   `json:"confidence"`
	IsRushHour            bool      `json:"is_rush_hour"`
	RushProbability       float64   `json:"rush_probability"`
}

// RushHourForecastResponse respuesta de GET /api/predictions/rush-hours.
type RushHourForecastResponse struct {
	HoursAhead int                 `json:"hours_ahead"`
	Items      []HourPredictionDTO `json:"items"`
}

// StoredPredictionsResponse respuesta de GET /api/predictions/stored.
type StoredPredictionsResponse struct {
	HoursAhead int                  `json:"hours_ahead"`
	Items      []PredictionResponse `json:"items"`
}

// ModelStatusResponse respuesta de GET /api/predictions/model-status.
type ModelStatusResponse struct {
	Trained       bool       `json:"trained"`
	ModelVersion  string     `json:"model_version,omitempty"`
	TrainedAt     *time.Time `json:"trained_at,omitempty"`
	SampleCount   int        `json:"sample_count"`
	MAE           float64    `json:"mae"`
	RushThreshold float64    `json:"rush_threshold"`
}

// RetrainResponse respuesta de POST /api/predictions/retrain.
// Skipped indica que no había corpus suficiente y el modelo previo sigue vigente.
type RetrainResponse struct {
	Skipped      bool       `json:"skipped"`
	SampleCount  int        `json:"sample_count"`
	ModelVersion string     `json:"model_version,omitempty"`
	TrainedAt    *time.Time `json:"trained_at,omitempty"`
	MAE          float64    `json:"mae"`
}

// VerifyPredictionsResponse respuesta de POST /api/predictions/verify.
type VerifyPredictionsResponse struct {
	Verified int `json:"verified"`
}
