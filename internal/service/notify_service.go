package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// NotifyService рассылает платёжные сводки в Telegram. После успешной
// отправки сам фиксирует этап message_confirm, чтобы сводка не ушла повторно.
type NotifyService struct {
	bot           *bot.Bot
	chatID        int64
	settlements   SettlementStore
	confirmations *ConfirmationService
	logger        *zap.Logger
}

func NewNotifyService(
	botInstance *bot.Bot,
	chatID int64,
	settlements SettlementStore,
	confirmations *ConfirmationService,
	logger *zap.Logger,
) *NotifyService {
	return &NotifyService{
		bot:           botInstance,
		chatID:        chatID,
		settlements:   settlements,
		confirmations: confirmations,
		logger:        logger,
	}
}

// SendPendingBillingMessages отправляет сводки по всем студентам месяца,
// у которых есть админское подтверждение, но сообщение ещё не уходило.
// Ошибка отправки одному студенту не прерывает рассылку остальным.
func (s *NotifyService) SendPendingBillingMessages(ctx context.Context, yyyymm string) (int, error) {
	settlements, err := s.settlements.ListByMonth(ctx, yyyymm)
	if err != nil {
		return 0, fmt.Errorf("list settlements: %w", err)
	}

	stages, err := s.confirmations.DeriveStages(ctx, yyyymm)
	if err != nil {
		return 0, fmt.Errorf("derive stages: %w", err)
	}

	sent := 0
	for _, settlement := range settlements {
		set := stages[NormalizeStudentName(settlement.StudentName)]
		if !set[model.StageAdminConfirm] || set[model.StageMessageConfirm] {
			continue
		}

		if err := s.sendBillingMessage(ctx, settlement); err != nil {
			s.logger.Error("Failed to send billing message",
				zap.String("student", settlement.StudentName),
				zap.String("yyyymm", yyyymm),
				zap.Error(err),
			)
			continue
		}

		_, err := s.confirmations.RecordTransition(ctx, []string{settlement.StudentName}, model.StageMessageConfirm, yyyymm, map[string]string{
			"channel":       "telegram",
			"settlement_id": settlement.ID,
		})
		if err != nil {
			// сообщение уже ушло, откатывать нечего — на следующей итерации
			// этап выведется заново из документов
			s.logger.Error("Billing message sent but stage not recorded",
				zap.String("student", settlement.StudentName),
				zap.Error(err),
			)
			continue
		}

		sent++
	}

	if sent > 0 {
		s.logger.Info("Billing messages sent",
			zap.String("yyyymm", yyyymm),
			zap.Int("count", sent),
		)
	}

	return sent, nil
}

// sendBillingMessage отправляет одну сводку в настроенный чат
func (s *NotifyService) sendBillingMessage(ctx context.Context, settlement *model.MonthlySettlement) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   FormatBillingMessage(settlement),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatBillingMessage собирает текст платёжной сводки
func FormatBillingMessage(s *model.MonthlySettlement) string {
	var b strings.Builder

	fmt.Fprintf(&b, "💰 Tuition summary %s — %s\n\n", s.YYYYMM, s.StudentName)
	fmt.Fprintf(&b, "Classes this month: %d\n", s.ThisMonthActualClasses)
	fmt.Fprintf(&b, "Carried-in credits: %d\n", s.CarryInCredit)
	fmt.Fprintf(&b, "Credits remaining: %d\n", s.TotalCreditsAvailable)
	fmt.Fprintf(&b, "Planned next month: %d\n", s.NextMonthPlanned)
	fmt.Fprintf(&b, "Classes to pay: %d\n", s.NextToPayClasses)
	fmt.Fprintf(&b, "Amount due: %d KRW", s.AmountDueNext)

	if s.NextToPayClasses < 0 {
		// перекредитованный студент: сумма отрицательная, решение о возврате
		// или кредит-ноте принимает админ
		b.WriteString("\n\n⚠️ Student is over-credited, review before charging")
	}

	return b.String()
}
