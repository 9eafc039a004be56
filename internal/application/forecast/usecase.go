package forecast

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/domain"
	"github.com/shoptrack/pos-api/internal/domain/entity"
	"github.com/shoptrack/pos-api/internal/domain/repository"
)

const (
	// trainingWindowDays días de historial de ventas para el corpus.
	trainingWindowDays = 90

	// minTrainingBuckets cubetas horarias mínimas para entrenar.
	minTrainingBuckets = 100

	// DefaultRushThreshold transacciones/hora a partir de las que una hora es pico.
	DefaultRushThreshold = 5.0

	// rushAlertProbability probabilidad a partir de la que se crea alerta RUSH_HOUR.
	rushAlertProbability = 0.8

	defaultHoursAhead = 24
	maxHoursAhead     = 168
)

// AlertCreator crea alertas de hora pico. Lo implementa el motor de alertas.
type AlertCreator interface {
	Create(ctx context.Context, input alerting.CreateAlertInput) (*entity.Alert, error)
}

// modelState artefacto vigente más el ensamble reconstruido, inmutable una vez
// publicado. Se reemplaza entero vía atomic.Pointer: un lector ve el modelo
// anterior o el nuevo, nunca una mezcla.
type modelState struct {
	artifact *Artifact
	model    *ensembleModel
}

// DemandForecasterUseCase entrena el modelo de demanda sobre el historial de
// ventas y predice horas pico con su confianza y probabilidad.
type DemandForecasterUseCase struct {
	analytics      repository.AnalyticsRepository
	predictionRepo repository.PredictionRepository
	alerts         AlertCreator
	store          *ArtifactStore
	rushThreshold  float64
	current        atomic.Pointer[modelState]
}

// NewDemandForecasterUseCase construye el caso de uso. alerts puede ser nil;
// rushThreshold <= 0 usa el valor por defecto.
func NewDemandForecasterUseCase(
	analytics repository.AnalyticsRepository,
	predictionRepo repository.PredictionRepository,
	alerts AlertCreator,
	store *ArtifactStore,
	rushThreshold float64,
) *DemandForecasterUseCase {
	if rushThreshold <= 0 {
		rushThreshold = DefaultRushThreshold
	}
	return &DemandForecasterUseCase{
		analytics:      analytics,
		predictionRepo: predictionRepo,
		alerts:         alerts,
		store:          store,
		rushThreshold:  rushThreshold,
	}
}

// LoadArtifact carga el artefacto persistido si existe (arranque). Sin
// artefacto no es error: el modelo queda sin entrenar hasta el primer Retrain.
func (uc *DemandForecasterUseCase) LoadArtifact() error {
	a, err := uc.store.Load()
	if err != nil {
		return err
	}
	if a == nil {
		return nil
	}
	uc.current.Store(&modelState{artifact: a, model: newEnsembleModel(a.Members)})
	log.Info().Str("version", a.Version).Time("trained_at", a.TrainedAt).Msg("modelo de predicción cargado")
	return nil
}

// RetrainResult resumen de un entrenamiento.
type RetrainResult struct {
	Skipped     bool
	SampleCount int
	Version     string
	TrainedAt   time.Time
	MAE         float64
}

// Retrain reentrena el ensamble con los últimos 90 días de ventas completadas.
// Con menos de 100 cubetas horarias no entrena: devuelve Skipped y el artefacto
// previo queda intacto. El nuevo modelo se publica con un swap atómico.
func (uc *DemandForecasterUseCase) Retrain(ctx context.Context) (*RetrainResult, error) {
	buckets, err := uc.analytics.GetHourlyBuckets(ctx, trainingWindowDays)
	if err != nil {
		return nil, fmt.Errorf("corpus de entrenamiento: %w", err)
	}
	if len(buckets) < minTrainingBuckets {
		log.Warn().Int("buckets", len(buckets)).Int("min", minTrainingBuckets).
			Msg("datos insuficientes para entrenar el modelo de predicción")
		return &RetrainResult{Skipped: true, SampleCount: len(buckets)}, nil
	}

	X, y := trainingMatrix(buckets)
	rng := rand.New(rand.NewSource(trainSeed))
	Xtr, Xte, ytr, yte := trainTestSplit(X, y, rng)

	scaler := fitScaler(Xtr)
	model, err := trainEnsemble(scaler.transformAll(Xtr), ytr, rng)
	if err != nil {
		return nil, fmt.Errorf("entrenar ensamble: %w", err)
	}
	mae := meanAbsoluteError(model, scaler.transformAll(Xte), yte)

	now := time.Now().UTC()
	artifact := &Artifact{
		Version:   fmt.Sprintf("1.%s", now.Format("20060102150405")),
		TrainedAt: now,
		Scaler:    scaler,
		Members:   model.members,
		MAE:       mae,
		Samples:   len(X),
	}
	uc.current.Store(&modelState{artifact: artifact, model: model})
	if err := uc.store.Save(artifact); err != nil {
		// El modelo en memoria ya quedó publicado; solo se pierde al reiniciar.
		log.Error().Err(err).Msg("persistir artefacto del modelo")
	}

	log.Info().Str("version", artifact.Version).Int("samples", artifact.Samples).
		Float64("mae", mae).Msg("modelo de predicción entrenado")
	return &RetrainResult{
		SampleCount: len(X),
		Version:     artifact.Version,
		TrainedAt:   now,
		MAE:         mae,
	}, nil
}

// HourPrediction predicción de una hora futura.
type HourPrediction struct {
	Hour                  time.Time
	PredictedTransactions float64
	Confidence            float64
	IsRushHour            bool
	RushProbability       float64
}

// PredictRushHours predice cada una de las próximas hoursAhead horas (por
// defecto 24, máximo 168), persiste cada predicción y dispara alerta RUSH_HOUR
// cuando la probabilidad supera 0.8. Sin modelo devuelve ErrModelNotTrained.
func (uc *DemandForecasterUseCase) PredictRushHours(ctx context.Context, hoursAhead int) ([]HourPrediction, error) {
	state := uc.current.Load()
	if state == nil {
		return nil, domain.ErrModelNotTrained
	}
	hoursAhead = clampHours(hoursAhead)

	now := time.Now().UTC()
	predictions := make([]HourPrediction, 0, hoursAhead)
	for i := 0; i < hoursAhead; i++ {
		target := now.Add(time.Duration(i) * time.Hour).Truncate(time.Hour)

		hourCtx, err := uc.analytics.GetSameHourContext(ctx, now, target.Hour())
		if err != nil {
			// Sin contexto se predice igual, con promedios en cero
			log.Warn().Err(err).Int("hour", target.Hour()).Msg("contexto histórico de la hora")
			hourCtx = repository.HourContext{}
		}

		scaled := state.artifact.Scaler.transform(predictionFeatures(target, hourCtx))
		var predicted, confidence float64
		if len(state.model.members) == 0 {
			confidence = 0.7
		} else {
			mean, std := state.model.Predict(scaled)
			predicted = math.Max(0, mean)
			confidence = confidenceFromDispersion(mean, std)
		}
		probability := 1 / (1 + math.Exp(-(predicted - uc.rushThreshold)))

		p := HourPrediction{
			Hour:                  target,
			PredictedTransactions: predicted,
			Confidence:            confidence,
			IsRushHour:            predicted > uc.rushThreshold,
			RushProbability:       probability,
		}
		predictions = append(predictions, p)

		uc.storePrediction(ctx, state.artifact.Version, p)
		if probability > rushAlertProbability {
			uc.createRushAlert(ctx, p)
		}
	}
	return predictions, nil
}

// confidenceFromDispersion confianza = 1 - dispersión relativa entre miembros,
// acotada a [0, 1].
func confidenceFromDispersion(mean, std float64) float64 {
	c := 1 - std/(mean+1e-6)
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func (uc *DemandForecasterUseCase) storePrediction(ctx context.Context, version string, p HourPrediction) {
	pred := &entity.Prediction{
		Type:            entity.PredictionTypeRushHour,
		PredictedValue:  p.PredictedTransactions,
		ConfidenceScore: p.Confidence,
		PredictionFor:   p.Hour,
		HorizonHours:    1,
		ModelVersion:    version,
		Status:          entity.PredictionStatusActive,
		IsRushHour:      p.IsRushHour,
		RushProbability: p.RushProbability,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.predictionRepo.Create(pred); err != nil {
		log.Error().Err(err).Time("hour", p.Hour).Msg("persistir predicción")
	}
}

func (uc *DemandForecasterUseCase) createRushAlert(ctx context.Context, p HourPrediction) {
	if uc.alerts == nil {
		return
	}
	_, err := uc.alerts.Create(ctx, alerting.CreateAlertInput{
		Type:     entity.AlertTypeRushHour,
		Severity: entity.SeverityMedium,
		Title:    fmt.Sprintf("Hora pico prevista: %s", p.Hour.Format("2006-01-02 15:00")),
		Message: fmt.Sprintf("Se prevé alta actividad con %.1f transacciones y %.0f%% de probabilidad de hora pico.",
			p.PredictedTransactions, p.RushProbability*100),
		Details: map[string]any{
			"predicted_transactions": p.PredictedTransactions,
			"rush_probability":       p.RushProbability,
			"confidence":             p.Confidence,
		},
	})
	if err != nil {
		log.Error().Err(err).Time("hour", p.Hour).Msg("crear alerta de hora pico")
	}
}

// GetStoredPredictions lista las predicciones ACTIVE con hora objetivo dentro
// de [ahora, ahora+hoursAhead], ascendente.
func (uc *DemandForecasterUseCase) GetStoredPredictions(ctx context.Context, hoursAhead int) ([]dto.PredictionResponse, error) {
	hoursAhead = clampHours(hoursAhead)
	now := time.Now().UTC()
	preds, err := uc.predictionRepo.ListActiveInRange(ctx, entity.PredictionTypeRushHour, now, now.Add(time.Duration(hoursAhead)*time.Hour))
	if err != nil {
		return nil, err
	}
	out := make([]dto.PredictionResponse, 0, len(preds))
	for _, p := range preds {
		out = append(out, ToPredictionResponse(p))
	}
	return out, nil
}

// ModelStatus estado del modelo vigente.
func (uc *DemandForecasterUseCase) ModelStatus() dto.ModelStatusResponse {
	resp := dto.ModelStatusResponse{RushThreshold: uc.rushThreshold}
	state := uc.current.Load()
	if state == nil {
		return resp
	}
	trainedAt := state.artifact.TrainedAt
	resp.Trained = true
	resp.ModelVersion = state.artifact.Version
	resp.TrainedAt = &trainedAt
	resp.SampleCount = state.artifact.Samples
	resp.MAE = state.artifact.MAE
	return resp
}

// VerifyPredictions contrasta las predicciones ACTIVE cuya hora objetivo ya
// transcurrió completa contra las transacciones reales de esa hora y las marca
// VERIFIED con su exactitud. Las ACTIVE con más de 7 días pasan a EXPIRED.
func (uc *DemandForecasterUseCase) VerifyPredictions(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	pending, err := uc.predictionRepo.ListPendingVerification(ctx, now.Add(-time.Hour))
	if err != nil {
		return 0, err
	}

	verified := 0
	for _, p := range pending {
		hourStart := p.PredictionFor.Truncate(time.Hour)
		actual, err := uc.analytics.GetTransactionCountForHour(ctx, hourStart)
		if err != nil {
			log.Warn().Err(err).Str("prediction_id", p.ID).Msg("transacciones reales de la hora")
			continue
		}
		accuracy := predictionAccuracy(p.PredictedValue, float64(actual))
		if err := uc.predictionRepo.Verify(ctx, p.ID, float64(actual), accuracy, now); err != nil {
			log.Warn().Err(err).Str("prediction_id", p.ID).Msg("marcar predicción verificada")
			continue
		}
		verified++
	}

	expired, err := uc.predictionRepo.ExpireOlderThan(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		log.Warn().Err(err).Msg("expirar predicciones viejas")
	} else if expired > 0 {
		log.Info().Int("count", expired).Msg("predicciones expiradas")
	}

	if verified > 0 {
		log.Info().Int("count", verified).Msg("predicciones verificadas")
	}
	return verified, nil
}

// predictionAccuracy exactitud relativa en [0, 1]: 1 es predicción perfecta.
func predictionAccuracy(predicted, actual float64) float64 {
	denom := actual
	if denom < 1 {
		denom = 1
	}
	acc := 1 - math.Abs(predicted-actual)/denom
	if acc < 0 {
		return 0
	}
	return acc
}

func clampHours(h int) int {
	if h <= 0 {
		return defaultHoursAhead
	}
	if h > maxHoursAhead {
		return maxHoursAhead
	}
	return h
}

// ToPredictionResponse convierte la entidad al DTO de salida.
func ToPredictionResponse(p *entity.Prediction) dto.PredictionResponse {
	return dto.PredictionResponse{
		ID:              p.ID,
		Type:            p.Type,
		PredictedValue:  p.PredictedValue,
		ConfidenceScore: p.ConfidenceScore,
		PredictionFor:   p.PredictionFor,
		HorizonHours:    p.HorizonHours,
		ModelVersion:    p.ModelVersion,
		Status:          p.Status,
		IsRushHour:      p.IsRushHour,
		RushProbability: p.RushProbability,
		ActualValue:     p.ActualValue,
		AccuracyScore:   p.AccuracyScore,
		VerifiedAt:      p.VerifiedAt,
		CreatedAt:       p.CreatedAt,
	}
}
