package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"github.com/Edu-Form/fluent-portal/internal/service/scheduleimage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type allocateRequest struct {
	Date          string   `json:"date"`
	Dates         []string `json:"dates"`
	Hour          int      `json:"hour"`
	DurationHours int      `json:"duration_hours"`
	TeacherName   string   `json:"teacher_name"`
	StudentName   string   `json:"student_name"`
}

func (r allocateRequest) validate() error {
	if r.Hour < 0 || r.Hour > 23 {
		return errors.New("hour must be 0-23")
	}
	if r.DurationHours <= 0 {
		return errors.New("duration_hours must be positive")
	}
	if r.StudentName == "" {
		return errors.New("student_name is required")
	}
	return nil
}

// AllocateSchedule бронирует комнату под одно занятие
func (c *Controller) AllocateSchedule(ctx echo.Context) error {
	var req allocateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := c.allocation.Allocate(ctx.Request().Context(), req.Date, req.Hour, req.DurationHours, req.TeacherName, req.StudentName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable date")
		case errors.Is(err, service.ErrNoAvailableRoom):
			return echo.NewHTTPError(http.StatusConflict, "no available room")
		default:
			c.logger.Error("Failed to allocate schedule", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to allocate schedule")
		}
	}

	return ctx.JSON(http.StatusCreated, entry)
}

type batchAllocateResponse struct {
	Allocated []*model.ScheduleEntry `json:"allocated"`
	Failed    string                 `json:"failed_date,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// AllocateBatch бронирует комнаты под пачку дат. Частичный успех — штатный
// исход: уже созданные записи возвращаются вместе с ошибкой по упавшей дате,
// отката нет.
func (c *Controller) AllocateBatch(ctx echo.Context) error {
	var req allocateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Dates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "dates are required")
	}

	allocated, err := c.allocation.AllocateBatch(ctx.Request().Context(), req.Dates, req.Hour, req.DurationHours, req.TeacherName, req.StudentName)
	resp := batchAllocateResponse{Allocated: allocated}
	if resp.Allocated == nil {
		resp.Allocated = []*model.ScheduleEntry{}
	}

	if err != nil {
		resp.Error = err.Error()
		if len(allocated) < len(req.Dates) {
			resp.Failed = req.Dates[len(allocated)]
		}
		// 207: часть дат забронирована, часть нет
		return ctx.JSON(http.StatusMultiStatus, resp)
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// ListSchedules отдаёт записи либо по дате, либо по студенту и месяцу
func (c *Controller) ListSchedules(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if date := ctx.QueryParam("date"); date != "" {
		canonical, ok := dateutil.Normalize(date)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable date")
		}
		entries, err := c.scheduleRepo.GetByDate(reqCtx, canonical)
		if err != nil {
			c.logger.Warn("Failed to list schedules by date", zap.Error(err))
			entries = nil
		}
		return ctx.JSON(http.StatusOK, emptyIfNil(entries))
	}

	student := ctx.QueryParam("student")
	month := ctx.QueryParam("month")
	if student == "" || month == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date or student+month required")
	}
	anchor, ok := dateutil.Parse(month)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unparseable month")
	}

	entries, err := c.scheduleRepo.GetByStudent(reqCtx, student)
	if err != nil {
		// дисплейное чтение деградирует до пустого списка
		c.logger.Warn("Failed to list schedules by student", zap.Error(err))
		entries = nil
	}

	var inMonth []*model.ScheduleEntry
	for _, entry := range entries {
		if d, ok := dateutil.Parse(entry.Date); ok && d.SameMonth(anchor) {
			inMonth = append(inMonth, entry)
		}
	}

	return ctx.JSON(http.StatusOK, emptyIfNil(inMonth))
}

// DeleteSchedule удаляет запись расписания
func (c *Controller) DeleteSchedule(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}

	if err := c.scheduleRepo.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "schedule entry not found")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// WeekImage отдаёт PNG с недельной сеткой занятий по комнатам
func (c *Controller) WeekImage(ctx echo.Context) error {
	start, ok := dateutil.Parse(ctx.QueryParam("start"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unparseable start date")
	}

	reqCtx := ctx.Request().Context()

	// Загружаем ровно ту неделю Пн-Вс, которую нарисует рендерер
	weekStart, weekEnd := scheduleimage.WeekRange(start)
	entries, err := c.scheduleRepo.GetByDateRange(reqCtx, weekStart.Format(), weekEnd.Format())
	if err != nil {
		c.logger.Warn("Failed to load week entries", zap.Error(err))
		entries = nil
	}

	rooms, err := c.roomRepo.List(reqCtx)
	if err != nil {
		c.logger.Error("Failed to list rooms for week image", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render image")
	}

	img, err := scheduleimage.GenerateWeekImage(start, entries, rooms)
	if err != nil {
		c.logger.Error("Failed to render week image", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render image")
	}

	return ctx.Blob(http.StatusOK, "image/png", img)
}

// emptyIfNil заменяет nil-срез пустым чтобы в JSON ушёл [], а не null
func emptyIfNil(entries []*model.ScheduleEntry) []*model.ScheduleEntry {
	if entries == nil {
		return []*model.ScheduleEntry{}
	}
	return entries
}
