// Package controller отдаёт операции портала по HTTP (echo)
package controller

import (
	"github.com/Edu-Form/fluent-portal/internal/repository"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Controller struct {
	roomRepo     *repository.RoomRepository
	scheduleRepo *repository.ScheduleRepository
	noteRepo     *repository.ClassNoteRepository

	allocation    *service.AllocationService
	billing       *service.BillingService
	confirmations *service.ConfirmationService

	logger *zap.Logger
}

func NewController(
	roomRepo *repository.RoomRepository,
	scheduleRepo *repository.ScheduleRepository,
	noteRepo *repository.ClassNoteRepository,
	allocation *service.AllocationService,
	billing *service.BillingService,
	confirmations *service.ConfirmationService,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		roomRepo:      roomRepo,
		scheduleRepo:  scheduleRepo,
		noteRepo:      noteRepo,
		allocation:    allocation,
		billing:       billing,
		confirmations: confirmations,
		logger:        logger,
	}
}

// RegisterRoutes регистрирует все маршруты портала
func (c *Controller) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", c.Health)

	e.GET("/rooms", c.ListRooms)
	e.POST("/rooms", c.CreateRoom)
	e.DELETE("/rooms/:id", c.DeleteRoom)
	e.GET("/rooms/available", c.AvailableRooms)

	e.GET("/schedules", c.ListSchedules)
	e.POST("/schedules", c.AllocateSchedule)
	e.POST("/schedules/batch", c.AllocateBatch)
	e.DELETE("/schedules/:id", c.DeleteSchedule)
	e.GET("/schedules/week-image", c.WeekImage)

	e.GET("/notes", c.ListNotes)
	e.POST("/notes", c.CreateNote)

	e.GET("/billing/reconcile", c.Reconcile)
	e.POST("/billing/rows/match", c.MatchRow)
	e.POST("/billing/compute", c.ComputeSettlement)
	e.POST("/billing/settlements", c.CreateSettlement)
	e.GET("/billing/settlements", c.ListSettlements)
	e.GET("/billing/settlements/:yyyymm/export", c.ExportSettlements)

	e.POST("/confirmations", c.RecordTransition)
	e.GET("/confirmations/:yyyymm", c.DeriveStages)
}

// Health простой liveness-чек
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(200, map[string]string{"status": "ok"})
}
