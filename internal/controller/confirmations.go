package controller

import (
	"errors"
	"net/http"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type recordTransitionRequest struct {
	StudentNames []string          `json:"student_names"`
	Step         string            `json:"step"`
	YYYYMM       string            `json:"yyyymm"`
	Meta         map[string]string `json:"meta"`
}

// RecordTransition добавляет документ перехода этапа подтверждения
func (c *Controller) RecordTransition(ctx echo.Context) error {
	var req recordTransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.StudentNames) == 0 || req.YYYYMM == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student_names and yyyymm are required")
	}

	stage, ok := service.NormalizeStep(req.Step)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown step")
	}

	doc, err := c.confirmations.RecordTransition(ctx.Request().Context(), req.StudentNames, stage, req.YYYYMM, req.Meta)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStage) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown step")
		}
		c.logger.Error("Failed to record stage transition", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record transition")
	}

	return ctx.JSON(http.StatusCreated, doc)
}

type studentStagesResponse struct {
	Stages       map[model.Stage]bool `json:"stages"`
	DoneCount    int                  `json:"done_count"`
	CurrentStage *model.Stage         `json:"current_stage"` // null когда все четыре отмечены
}

// DeriveStages заново выводит состояние этапов всех студентов за месяц из
// журнала документов
func (c *Controller) DeriveStages(ctx echo.Context) error {
	yyyymm := ctx.Param("yyyymm")

	stages, err := c.confirmations.DeriveStages(ctx.Request().Context(), yyyymm)
	if err != nil {
		c.logger.Error("Failed to derive stages", zap.String("yyyymm", yyyymm), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to derive stages")
	}

	resp := make(map[string]studentStagesResponse, len(stages))
	for student, set := range stages {
		entry := studentStagesResponse{
			Stages:    set,
			DoneCount: set.DoneCount(),
		}
		if stage, ok := service.FirstNotDone(set); ok {
			entry.CurrentStage = &stage
		}
		resp[student] = entry
	}

	return ctx.JSON(http.StatusOK, resp)
}
