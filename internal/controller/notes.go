package controller

import (
	"net/http"
	"strings"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type createNoteRequest struct {
	StudentName string `json:"student_name"`
	TeacherName string `json:"teacher_name"`
	Date        string `json:"date"`
	BodyText    string `json:"body_text"`
}

// CreateNote сохраняет заметку о прошедшем занятии. Дата канонизируется на
// входе; содержимое заметки здесь непрозрачный текст, редакторы живут
// снаружи.
func (c *Controller) CreateNote(ctx echo.Context) error {
	var req createNoteRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.StudentName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student_name is required")
	}
	date, ok := dateutil.Normalize(req.Date)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unparseable date")
	}

	note := &model.ClassNoteEntry{
		StudentName: req.StudentName,
		TeacherName: req.TeacherName,
		Date:        date,
		BodyText:    req.BodyText,
	}

	if err := c.noteRepo.Create(ctx.Request().Context(), note); err != nil {
		c.logger.Error("Failed to create class note",
			zap.String("student", req.StudentName),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create class note")
	}

	return ctx.JSON(http.StatusCreated, note)
}

// ListNotes отдаёт заметки студента, опционально отфильтрованные по месяцу
func (c *Controller) ListNotes(ctx echo.Context) error {
	student := ctx.QueryParam("student")
	if student == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "student is required")
	}

	notes, err := c.noteRepo.GetByStudent(ctx.Request().Context(), student)
	if err != nil {
		// дисплейное чтение деградирует до пустого списка
		c.logger.Warn("Failed to list class notes", zap.String("student", student), zap.Error(err))
		notes = nil
	}

	if month := ctx.QueryParam("month"); month != "" {
		anchor, ok := dateutil.Parse(month)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable month")
		}
		var filtered []*model.ClassNoteEntry
		for _, note := range notes {
			if d, ok := dateutil.Parse(note.Date); ok && d.SameMonth(anchor) {
				filtered = append(filtered, note)
			}
		}
		notes = filtered
	}

	if notes == nil {
		notes = []*model.ClassNoteEntry{}
	}
	return ctx.JSON(http.StatusOK, notes)
}
