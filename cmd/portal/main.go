package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Edu-Form/fluent-portal/internal/app"
	"github.com/Edu-Form/fluent-portal/internal/config"
	"github.com/Edu-Form/fluent-portal/internal/controller"
	"github.com/Edu-Form/fluent-portal/internal/repository"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting tutoring portal",
		"environment", cfg.Environment,
		"port", cfg.AppPort,
		"notifier_enabled", cfg.NotifierEnabled())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключаемся к базе
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	roomRepo := repository.NewRoomRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	noteRepo := repository.NewClassNoteRepository(pool)
	settlementRepo := repository.NewSettlementRepository(pool)
	confirmationRepo := repository.NewConfirmationRepository(pool)

	// Сервисы
	allocation := service.NewAllocationService(roomRepo, scheduleRepo, logger)
	billing := service.NewBillingService(noteRepo, scheduleRepo, settlementRepo, allocation, logger)
	confirmations := service.NewConfirmationService(confirmationRepo, logger)

	// Фоновая рассылка платёжных сводок (опциональна)
	var scheduler *app.Scheduler
	if cfg.NotifierEnabled() {
		botInstance, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		notify := service.NewNotifyService(botInstance, cfg.BillingChatID, settlementRepo, confirmations, logger)
		scheduler = app.NewScheduler(notify, cfg.NotifyInterval, logger)
		scheduler.Start(ctx)
	} else {
		logger.Info("Billing message notifier disabled (no telegram credentials)")
	}

	// HTTP
	ctrl := controller.NewController(roomRepo, scheduleRepo, noteRepo, allocation, billing, confirmations, logger)
	server := app.NewServer(ctrl, ":"+cfg.AppPort, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Ждём сигнал или падение сервера
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server gracefully", zap.Error(err))
	}

	logger.Info("✅ Portal stopped")
}
