package service

import "github.com/Edu-Form/fluent-portal/internal/model"

// SettlementMode режим расчёта. Оба режима существуют в продукте у разных
// вызывающих сторон намеренно, сливать их в одну "правильную" формулу нельзя.
type SettlementMode string

const (
	// ModeSimpleOffset простой зачёт кредитов против занятий текущего месяца
	// (лёгкая биллинговая вкладка)
	ModeSimpleOffset SettlementMode = "simple_offset"

	// ModeCarryover двустороннее сведение перенос/план — авторитетный режим,
	// используется в потоке второго (админского) подтверждения
	ModeCarryover SettlementMode = "carryover"
)

// SettlementInputs входы расчёта. Поля читаются в зависимости от режима,
// незаполненные счётчики трактуются как 0.
type SettlementInputs struct {
	// Mode A
	TotalClassesThisMonth int `json:"total_classes_this_month"`
	RemainingCredits      int `json:"remaining_credits"`

	// Mode B
	CarryInCredit    int `json:"carry_in_credit"`
	ThisMonthActual  int `json:"this_month_actual"`
	NextMonthPlanned int `json:"next_month_planned"`

	FeePerClass int `json:"fee_per_class"`
}

// SettlementResult результат расчёта
type SettlementResult struct {
	Mode SettlementMode `json:"mode"`

	// Mode A
	CreditApplied   int `json:"credit_applied,omitempty"`
	BillableClasses int `json:"billable_classes,omitempty"`
	AmountDue       int `json:"amount_due,omitempty"`

	// Mode B
	CarryAfterSettlement  int `json:"carry_after_settlement,omitempty"`
	TotalCreditsAvailable int `json:"total_credits_available,omitempty"`
	NextToPayClasses      int `json:"next_to_pay_classes,omitempty"`
	AmountDueNext         int `json:"amount_due_next,omitempty"`

	FeePerClass int `json:"fee_per_class"`
}

// ComputeSettlement считает расчёт в указанном режиме
func ComputeSettlement(mode SettlementMode, in SettlementInputs) (SettlementResult, error) {
	switch mode {
	case ModeSimpleOffset:
		return ComputeSimpleOffset(in.TotalClassesThisMonth, in.RemainingCredits, in.FeePerClass), nil
	case ModeCarryover:
		return ComputeCarryover(in.CarryInCredit, in.ThisMonthActual, in.NextMonthPlanned, in.FeePerClass), nil
	default:
		return SettlementResult{}, ErrUnknownMode
	}
}

// ComputeSimpleOffset режим A: зачитываем кредиты против занятий текущего
// месяца, остаток оплачивается по тарифу.
func ComputeSimpleOffset(totalClasses, remainingCredits, feePerClass int) SettlementResult {
	fee := normalizeFee(feePerClass)

	creditApplied := remainingCredits
	if totalClasses < creditApplied {
		creditApplied = totalClasses
	}
	billable := totalClasses - creditApplied
	if billable < 0 {
		billable = 0
	}

	return SettlementResult{
		Mode:            ModeSimpleOffset,
		CreditApplied:   creditApplied,
		BillableClasses: billable,
		AmountDue:       billable * fee,
		FeePerClass:     fee,
	}
}

// ComputeCarryover режим B: проспективный биллинг. Сумма к оплате покрывает
// занятия, запланированные на СЛЕДУЮЩИЙ месяц, за вычетом неиспользованных
// предоплаченных кредитов текущего месяца.
//
// NextToPayClasses может быть отрицательным (студент перекредитован) —
// знак сохраняется, трактовка (возврат или кредит-нота) остаётся за
// вызывающей стороной.
func ComputeCarryover(carryInCredit, thisMonthActual, nextMonthPlanned, feePerClass int) SettlementResult {
	fee := normalizeFee(feePerClass)

	carryAfter := carryInCredit - thisMonthActual // может уйти в минус
	totalAvailable := carryAfter
	if totalAvailable < 0 {
		totalAvailable = 0
	}
	nextToPay := nextMonthPlanned - totalAvailable

	return SettlementResult{
		Mode:                  ModeCarryover,
		CarryAfterSettlement:  carryAfter,
		TotalCreditsAvailable: totalAvailable,
		NextToPayClasses:      nextToPay,
		AmountDueNext:         nextToPay * fee,
		FeePerClass:           fee,
	}
}

// normalizeFee подставляет тариф по умолчанию если тариф не задан
func normalizeFee(fee int) int {
	if fee <= 0 {
		return model.DefaultFeePerClass
	}
	return fee
}
