package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/pkg/utils"
	"github.com/parking-zone-service/internal/pkg/validator"
	"github.com/parking-zone-service/internal/usecase"
	"github.com/parking-zone-service/internal/usecase/dto"
)

// CorrelationHandler - обработчик привязки адресов к зонам
type CorrelationHandler struct {
	correlationUC usecase.BatchCorrelator
	logger        *zap.Logger
}

// NewCorrelationHandler - создание нового CorrelationHandler
func NewCorrelationHandler(correlationUC usecase.BatchCorrelator, logger *zap.Logger) *CorrelationHandler {
	return &CorrelationHandler{
		correlationUC: correlationUC,
		logger:        logger,
	}
}

// Correlate godoc
// @Summary Привязка адресов к зонам уборки
// @Description Для каждого адреса находит ближайшую зону не дальше 50 метров. Результаты в порядке входных адресов.
// @Tags Correlation
// @Accept json
// @Produce json
// @Param request body dto.CorrelateRequest true "Адреса и зоны в плоских координатах"
// @Success 200 {object} utils.SuccessResponse{data=dto.CorrelateResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/correlate [post]
func (h *CorrelationHandler) Correlate(c *fiber.Ctx) error {
	var req dto.CorrelateRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Invalid correlate body", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.correlationUC.CorrelateBatch(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Results),
		Matched:  result.Matched,
		TimeMSec: result.TimeMSec,
	})
}

// Benchmark godoc
// @Summary Сравнение алгоритмов
// @Description Прогоняет все алгоритмы на одних данных и возвращает время и число совпадений
// @Tags Correlation
// @Accept json
// @Produce json
// @Param request body dto.BenchmarkRequest true "Адреса и зоны"
// @Success 200 {object} utils.SuccessResponse{data=dto.BenchmarkResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/correlate/benchmark [post]
func (h *CorrelationHandler) Benchmark(c *fiber.Ctx) error {
	var req dto.BenchmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.correlationUC.Benchmark(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
