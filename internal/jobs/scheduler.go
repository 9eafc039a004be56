// Package jobs programa las tareas de fondo del sistema: refresco de
// predicciones de horas pico, barrido de alertas vencidas, reentrenamiento
// del modelo y cierre diario.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/shoptrack/pos-api/internal/application/alerting"
	"github.com/shoptrack/pos-api/internal/application/forecast"
	"github.com/shoptrack/pos-api/internal/application/sales"
)

const (
	specRushRefresh  = "0 * * * *"    // cada hora en punto
	specAlertSweep   = "*/30 * * * *" // cada 30 minutos
	specRetrain      = "0 2 * * *"    // madrugada, fuera del horario de venta
	specNightlyClose = "55 23 * * *"  // verificación y reporte antes de medianoche

	rushHoursAhead = 24
	jobTimeout     = 5 * time.Minute
	retryMaxWait   = 10 * time.Minute
)

// Scheduler agrupa los trabajos cron sobre los casos de uso.
type Scheduler struct {
	cron       *cron.Cron
	forecaster *forecast.DemandForecasterUseCase
	alerts     *alerting.AlertEngineUseCase
	sales      *sales.TransactionRecorderUseCase
}

// PrintfLogger es lo que el scheduler necesita para su log interno.
type PrintfLogger interface {
	Printf(format string, args ...any)
}

// NewScheduler construye el scheduler y registra los trabajos.
func NewScheduler(
	forecaster *forecast.DemandForecasterUseCase,
	alerts *alerting.AlertEngineUseCase,
	salesUC *sales.TransactionRecorderUseCase,
	cronLog PrintfLogger,
) (*Scheduler, error) {
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(cronLog)),
		cron.WithChain(cron.Recover(cron.VerbosePrintfLogger(cronLog))),
	)
	s := &Scheduler{cron: c, forecaster: forecaster, alerts: alerts, sales: salesUC}

	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{specRushRefresh, "rush_refresh", s.refreshRushPredictions},
		{specAlertSweep, "alert_sweep", s.sweepAlerts},
		{specRetrain, "model_retrain", s.retrainModel},
		{specNightlyClose, "nightly_close", s.nightlyClose},
	}
	for _, job := range jobs {
		if _, err := c.AddFunc(job.spec, job.fn); err != nil {
			return nil, fmt.Errorf("registrar trabajo %s: %w", job.name, err)
		}
	}
	return s, nil
}

// Start arranca el scheduler en su propia goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("Scheduler de trabajos iniciado")
}

// Stop detiene el scheduler y devuelve el contexto que se cierra cuando
// terminan los trabajos en curso.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) refreshRushPredictions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	predictions, err := s.forecaster.PredictRushHours(ctx, rushHoursAhead)
	if err != nil {
		log.Warn().Err(err).Msg("Refresco de predicciones de horas pico")
		return
	}
	log.Info().Int("hours", len(predictions)).Msg("Predicciones de horas pico refrescadas")
}

func (s *Scheduler) sweepAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.alerts.CleanupExpired(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Barrido de alertas vencidas")
		return
	}
	if count > 0 {
		log.Info().Int("count", count).Msg("Alertas expiradas en el barrido")
	}
}

// retrainModel reintenta con backoff: un fallo transitorio de BD a las 2 AM
// no debe dejar el modelo un día entero sin reentrenar.
func (s *Scheduler) retrainModel() {
	err := s.withRetry(func(ctx context.Context) error {
		result, err := s.forecaster.Retrain(ctx)
		if err != nil {
			return err
		}
		if result.Skipped {
			log.Warn().Int("samples", result.SampleCount).
				Msg("Reentrenamiento omitido por falta de historial")
			return nil
		}
		log.Info().Str("version", result.Version).Int("samples", result.SampleCount).
			Float64("mae", result.MAE).Msg("Modelo de demanda reentrenado")
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Reentrenamiento del modelo agotó reintentos")
	}
}

// nightlyClose verifica las predicciones del día contra lo realmente vendido
// y deja el reporte diario en el log.
func (s *Scheduler) nightlyClose() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	verified, err := s.forecaster.VerifyPredictions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Verificación de predicciones")
	} else if verified > 0 {
		log.Info().Int("count", verified).Msg("Predicciones del día verificadas")
	}

	s.dailyReport()
}

func (s *Scheduler) dailyReport() {
	err := s.withRetry(func(ctx context.Context) error {
		now := time.Now().UTC()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		summary, err := s.sales.GetSalesSummary(ctx, start, now)
		if err != nil {
			return err
		}
		log.Info().
			Str("date", start.Format("2006-01-02")).
			Int("transactions", summary.TotalSales).
			Str("revenue", summary.TotalRevenue.String()).
			Int("items_sold", summary.TotalItems).
			Msg("Reporte diario de ventas")
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Reporte diario agotó reintentos")
	}
}

func (s *Scheduler) withRetry(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), retryMaxWait)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = retryMaxWait
	return backoff.Retry(func() error {
		return fn(ctx)
	}, backoff.WithContext(b, ctx))
}
