package app

import (
	"context"
	"time"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/service"
	"go.uber.org/zap"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	notify   *service.NotifyService
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик рассылки платёжных сводок
func NewScheduler(notify *service.NotifyService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		notify:   notify,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runBillingMessageTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runBillingMessageTask периодически досылает платёжные сводки по студентам,
// у которых есть админское подтверждение, но сообщение ещё не уходило
func (s *Scheduler) runBillingMessageTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sendBillingMessages(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendBillingMessages(ctx)
		case <-s.stopChan:
			s.logger.Info("Billing message task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Billing message task cancelled")
			return
		}
	}
}

// sendBillingMessages рассылает сводки за текущий месяц
func (s *Scheduler) sendBillingMessages(ctx context.Context) {
	now := time.Now().UTC()
	yyyymm := dateutil.CalendarDate{
		Year:  now.Year(),
		Month: int(now.Month()),
		Day:   now.Day(),
	}.YYYYMM()

	sent, err := s.notify.SendPendingBillingMessages(ctx, yyyymm)
	if err != nil {
		s.logger.Error("Failed to send billing messages", zap.Error(err))
		return
	}

	if sent > 0 {
		s.logger.Info("Billing message pass complete",
			zap.String("yyyymm", yyyymm),
			zap.Int("sent", sent),
		)
	}
}
