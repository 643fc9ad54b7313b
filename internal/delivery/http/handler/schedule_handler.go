package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/parking-zone-service/internal/pkg/errors"
	"github.com/parking-zone-service/internal/pkg/utils"
	"github.com/parking-zone-service/internal/pkg/validator"
	"github.com/parking-zone-service/internal/usecase"
	"github.com/parking-zone-service/internal/usecase/dto"
)

// ScheduleHandler - обработчик расписаний уборки
type ScheduleHandler struct {
	scheduleUC *usecase.ScheduleUseCase
	logger     *zap.Logger
}

// NewScheduleHandler создает новый экземпляр ScheduleHandler
func NewScheduleHandler(scheduleUC *usecase.ScheduleUseCase, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUC: scheduleUC,
		logger:     logger,
	}
}

// Analyze godoc
// @Summary Анализ истории уборок
// @Description Выводит расписания по событиям и заменяет текущий снимок
// @Tags Schedules
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeSchedulesRequest true "События уборки"
// @Success 200 {object} utils.SuccessResponse{data=dto.AnalyzeSchedulesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/schedules/analyze [post]
func (h *ScheduleHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeSchedulesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.scheduleUC.AnalyzeAndStore(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Schedules)})
}

// List godoc
// @Summary Список расписаний
// @Tags Schedules
// @Produce json
// @Param addresses query string false "Адреса через запятую"
// @Param format query string false "minimal или full" default(full)
// @Success 200 {object} utils.SuccessResponse{data=dto.ScheduleListResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/schedules [get]
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	req := dto.ScheduleListRequest{
		Format: c.Query("format", usecase.FormatFull),
	}
	if raw := c.Query("addresses"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				req.Addresses = append(req.Addresses, a)
			}
		}
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.scheduleUC.ListSchedules(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Count,
		Checksum: result.Checksum,
	})
}

// Check godoc
// @Summary Проверка адреса
// @Description Когда по адресу следующая уборка и уровень оповещения
// @Tags Schedules
// @Accept json
// @Produce json
// @Param request body dto.CheckAddressRequest true "Адрес"
// @Success 200 {object} utils.SuccessResponse{data=dto.AddressCheckResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/schedules/check [post]
func (h *ScheduleHandler) Check(c *fiber.Ctx) error {
	var req dto.CheckAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.scheduleUC.CheckAddress(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Health godoc
// @Summary Состояние сервиса
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *ScheduleHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.scheduleUC.Health(c.UserContext()))
}
