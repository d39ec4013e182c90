package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListRooms отдаёт полный ростер комнат в порядке обхода аллокатора
func (c *Controller) ListRooms(ctx echo.Context) error {
	rooms, err := c.roomRepo.List(ctx.Request().Context())
	if err != nil {
		c.logger.Error("Failed to list rooms", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list rooms")
	}
	if rooms == nil {
		rooms = []*model.Room{}
	}
	return ctx.JSON(http.StatusOK, rooms)
}

type createRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoom добавляет комнату в ростер
func (c *Controller) CreateRoom(ctx echo.Context) error {
	var req createRoomRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "room name is required")
	}

	room := &model.Room{Name: strings.TrimSpace(req.Name)}
	if err := c.roomRepo.Create(ctx.Request().Context(), room); err != nil {
		c.logger.Error("Failed to create room", zap.String("name", req.Name), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create room")
	}

	return ctx.JSON(http.StatusCreated, room)
}

// DeleteRoom удаляет комнату из ростера
func (c *Controller) DeleteRoom(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	if err := c.roomRepo.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "room not found")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AvailableRooms отдаёт свободные комнаты на дату и час
func (c *Controller) AvailableRooms(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	hour, err := strconv.Atoi(ctx.QueryParam("hour"))
	if err != nil || hour < 0 || hour > 23 {
		return echo.NewHTTPError(http.StatusBadRequest, "hour must be 0-23")
	}

	rooms, err := c.allocation.AvailableRooms(ctx.Request().Context(), date, hour)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "unparseable date")
		}
		c.logger.Error("Failed to compute available rooms", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute available rooms")
	}

	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.Name)
	}

	return ctx.JSON(http.StatusOK, names)
}
