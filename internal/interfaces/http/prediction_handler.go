package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shoptrack/pos-api/internal/application/dto"
	"github.com/shoptrack/pos-api/internal/application/forecast"
	"github.com/shoptrack/pos-api/internal/domain"
)

// PredictionHandler expone el pronóstico de demanda y la gestión del modelo.
type PredictionHandler struct {
	uc *forecast.DemandForecasterUseCase
}

// NewPredictionHandler construye el handler.
func NewPredictionHandler(uc *forecast.DemandForecasterUseCase) *PredictionHandler {
	return &PredictionHandler{uc: uc}
}

// GetRushHours godoc
// @Summary      Pronóstico de horas pico
// @Description  Predice las próximas hours_ahead horas con el modelo vigente.
// @Description  Sin modelo entrenado responde 200 con lista vacía; el estado
// @Description  del modelo se consulta en /model-status.
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Param        hours_ahead  query  int  false  "Horizonte en horas"  default(24)  maximum(168)
// @Success      200  {object}  dto.RushHourForecastResponse
// @Router       /api/predictions/rush-hours [get]
func (h *PredictionHandler) GetRushHours(c *fiber.Ctx) error {
	hoursAhead := c.QueryInt("hours_ahead", 0)

	predictions, err := h.uc.PredictRushHours(c.Context(), hoursAhead)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotTrained) {
			return c.JSON(dto.RushHourForecastResponse{Items: []dto.HourPredictionDTO{}})
		}
		return domainError(c, err)
	}

	items := make([]dto.HourPredictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, dto.HourPredictionDTO{
			Hour:                  p.Hour,
			PredictedTransactions: p.PredictedTransactions,
			Confidence:            p.Confidence,
			IsRushHour:            p.IsRushHour,
			RushProbability:       p.RushProbability,
		})
	}
	return c.JSON(dto.RushHourForecastResponse{HoursAhead: len(items), Items: items})
}

// GetStored godoc
// @Summary      Predicciones almacenadas
// @Description  Predicciones ACTIVE ya persistidas para las próximas
// @Description  hours_ahead horas, sin recalcular el modelo.
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Param        hours_ahead  query  int  false  "Horizonte en horas"  default(24)  maximum(168)
// @Success      200  {object}  dto.StoredPredictionsResponse
// @Router       /api/predictions/stored [get]
func (h *PredictionHandler) GetStored(c *fiber.Ctx) error {
	hoursAhead := c.QueryInt("hours_ahead", 0)
	items, err := h.uc.GetStoredPredictions(c.Context(), hoursAhead)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.StoredPredictionsResponse{HoursAhead: len(items), Items: items})
}

// Retrain godoc
// @Summary      Reentrenar el modelo de demanda
// @Description  Reconstruye el corpus con los últimos 90 días de ventas y
// @Description  entrena un ensamble nuevo. Con historial insuficiente responde
// @Description  skipped y el modelo previo sigue vigente.
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RetrainResponse
// @Router       /api/predictions/retrain [post]
func (h *PredictionHandler) Retrain(c *fiber.Ctx) error {
	result, err := h.uc.Retrain(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	resp := dto.RetrainResponse{
		Skipped:     result.Skipped,
		SampleCount: result.SampleCount,
		MAE:         result.MAE,
	}
	if !result.Skipped {
		resp.ModelVersion = result.Version
		trainedAt := result.TrainedAt
		resp.TrainedAt = &trainedAt
	}
	return c.JSON(resp)
}

// Verify godoc
// @Summary      Verificar predicciones vencidas
// @Description  Compara cada predicción cuya hora ya pasó contra las ventas
// @Description  reales y registra su exactitud. El scheduler lo hace a diario;
// @Description  este endpoint fuerza una pasada inmediata.
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VerifyPredictionsResponse
// @Router       /api/predictions/verify [post]
func (h *PredictionHandler) Verify(c *fiber.Ctx) error {
	verified, err := h.uc.VerifyPredictions(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.VerifyPredictionsResponse{Verified: verified})
}

// GetModelStatus godoc
// @Summary      Estado del modelo de demanda
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ModelStatusResponse
// @Router       /api/predictions/model-status [get]
func (h *PredictionHandler) GetModelStatus(c *fiber.Ctx) error {
	return c.JSON(h.uc.ModelStatus())
}
