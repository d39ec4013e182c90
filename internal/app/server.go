package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/Edu-Form/fluent-portal/internal/controller"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server HTTP-сервер портала
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

// NewServer собирает echo с middleware и маршрутами контроллера
func NewServer(ctrl *controller.Controller, addr string, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	ctrl.RegisterRoutes(e)

	return &Server{
		echo:   e,
		addr:   addr,
		logger: logger,
	}
}

// Start запускает сервер (блокирует до остановки)
func (s *Server) Start() error {
	s.logger.Info("🚀 HTTP server listening", zap.String("addr", s.addr))

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown мягко останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
