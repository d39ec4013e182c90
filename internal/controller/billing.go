package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Reconcile строит таблицу сверки заметок и расписания за месяц
func (c *Controller) Reconcile(ctx echo.Context) error {
	student := ctx.QueryParam("student")
	month := ctx.QueryParam("month")
	if student == "" || month == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student and month are required")
	}

	rows, err := c.billing.ReconcileMonth(ctx.Request().Context(), student, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable month")
		}
		c.logger.Error("Failed to reconcile month", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reconcile")
	}

	if rows == nil {
		rows = []model.BillingRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

type matchRowRequest struct {
	StudentName     string `json:"student_name"`
	TeacherName     string `json:"teacher_name"`
	NoteDate        string `json:"note_date"`
	DefaultHour     int    `json:"default_hour"`
	DefaultDuration int    `json:"default_duration"`
}

// MatchRow закрывает строку сверки без расписания: привязывает существующую
// запись на эту дату или создаёт новую через аллокатор
func (c *Controller) MatchRow(ctx echo.Context) error {
	var req matchRowRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.StudentName == "" || req.NoteDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student_name and note_date are required")
	}
	if req.DefaultDuration <= 0 {
		req.DefaultDuration = 1
	}

	row := model.BillingRow{NoteDate: req.NoteDate}
	entry, err := c.billing.MatchOrCreate(ctx.Request().Context(), req.StudentName, req.TeacherName, row, req.DefaultHour, req.DefaultDuration)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable date")
		case errors.Is(err, service.ErrNoAvailableRoom):
			return echo.NewHTTPError(http.StatusConflict, "no available room")
		default:
			c.logger.Error("Failed to match billing row", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to match row")
		}
	}

	return ctx.JSON(http.StatusOK, entry)
}

type computeRequest struct {
	Mode   service.SettlementMode   `json:"mode"`
	Inputs service.SettlementInputs `json:"inputs"`
}

// ComputeSettlement считает расчёт в одном из двух режимов без сохранения
func (c *Controller) ComputeSettlement(ctx echo.Context) error {
	var req computeRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := service.ComputeSettlement(req.Mode, req.Inputs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be simple_offset or carryover")
	}

	return ctx.JSON(http.StatusOK, result)
}

type createSettlementRequest struct {
	StudentName   string `json:"student_name"`
	TeacherName   string `json:"teacher_name"`
	MonthAnchor   string `json:"month_anchor"`
	FeePerClass   int    `json:"fee_per_class"`
	CarryInCredit *int   `json:"carry_in_credit"`
	FinalSave     bool   `json:"final_save"`
}

// CreateSettlement собирает месячный снимок расчёта и сохраняет его
// (всегда как новую версию)
func (c *Controller) CreateSettlement(ctx echo.Context) error {
	var req createSettlementRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.StudentName == "" || req.MonthAnchor == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student_name and month_anchor are required")
	}

	reqCtx := ctx.Request().Context()

	settlement, err := c.billing.BuildMonthlySettlement(reqCtx, service.BuildSettlementRequest{
		StudentName:   req.StudentName,
		TeacherName:   req.TeacherName,
		MonthAnchor:   req.MonthAnchor,
		FeePerClass:   req.FeePerClass,
		CarryInCredit: req.CarryInCredit,
		FinalSave:     req.FinalSave,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable month anchor")
		}
		c.logger.Error("Failed to build settlement", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build settlement")
	}

	if _, err := c.billing.SaveSettlement(reqCtx, settlement); err != nil {
		c.logger.Error("Failed to save settlement", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save settlement")
	}

	return ctx.JSON(http.StatusCreated, settlement)
}

// ListSettlements отдаёт действующие снимки за месяц, либо один снимок
// студента если передан ?student=
func (c *Controller) ListSettlements(ctx echo.Context) error {
	yyyymm := ctx.QueryParam("yyyymm")
	if yyyymm == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "yyyymm is required")
	}

	reqCtx := ctx.Request().Context()

	if student := ctx.QueryParam("student"); student != "" {
		settlement, err := c.billing.GetLatestSettlement(reqCtx, student, yyyymm)
		if err != nil {
			c.logger.Error("Failed to get settlement", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to get settlement")
		}
		if settlement == nil {
			return echo.NewHTTPError(http.StatusNotFound, "settlement not found")
		}
		return ctx.JSON(http.StatusOK, settlement)
	}

	settlements, err := c.billing.ListSettlements(reqCtx, yyyymm)
	if err != nil {
		c.logger.Error("Failed to list settlements", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list settlements")
	}
	if settlements == nil {
		settlements = []*model.MonthlySettlement{}
	}
	return ctx.JSON(http.StatusOK, settlements)
}

// ExportSettlements выгружает действующие снимки месяца в xlsx
func (c *Controller) ExportSettlements(ctx echo.Context) error {
	yyyymm := ctx.Param("yyyymm")

	settlements, err := c.billing.ListSettlements(ctx.Request().Context(), yyyymm)
	if err != nil {
		c.logger.Error("Failed to list settlements for export", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export settlements")
	}

	workbook, err := service.BuildSettlementWorkbook(yyyymm, settlements)
	if err != nil {
		c.logger.Error("Failed to build settlement workbook", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export settlements")
	}
	defer workbook.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="settlements-%s.xlsx"`, yyyymm))
	ctx.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)

	if err := workbook.Write(ctx.Response()); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
