package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSimpleOffset(t *testing.T) {
	tests := []struct {
		name          string
		classes       int
		credits       int
		fee           int
		wantApplied   int
		wantBillable  int
		wantAmountDue int
	}{
		{name: "credits cover part", classes: 8, credits: 3, fee: 50000, wantApplied: 3, wantBillable: 5, wantAmountDue: 250000},
		{name: "credits cover all", classes: 4, credits: 10, fee: 50000, wantApplied: 4, wantBillable: 0, wantAmountDue: 0},
		{name: "no credits", classes: 6, credits: 0, fee: 40000, wantApplied: 0, wantBillable: 6, wantAmountDue: 240000},
		{name: "zero classes", classes: 0, credits: 5, fee: 50000, wantApplied: 0, wantBillable: 0, wantAmountDue: 0},
		{name: "fee defaults when unset", classes: 2, credits: 0, fee: 0, wantApplied: 0, wantBillable: 2, wantAmountDue: 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSimpleOffset(tt.classes, tt.credits, tt.fee)
			assert.Equal(t, tt.wantApplied, got.CreditApplied)
			assert.Equal(t, tt.wantBillable, got.BillableClasses)
			assert.Equal(t, tt.wantAmountDue, got.AmountDue)
		})
	}
}

func TestComputeCarryover(t *testing.T) {
	got := ComputeCarryover(6, 4, 8, 50000)
	assert.Equal(t, 2, got.CarryAfterSettlement)
	assert.Equal(t, 2, got.TotalCreditsAvailable)
	assert.Equal(t, 6, got.NextToPayClasses)
	assert.Equal(t, 300000, got.AmountDueNext)
}

// Перекредитованный студент: отрицательные значения не зануляются,
// знак должен дойти до вызывающей стороны как есть.
func TestComputeCarryoverOverCredited(t *testing.T) {
	got := ComputeCarryover(10, 2, 3, 50000)
	assert.Equal(t, 8, got.CarryAfterSettlement)
	assert.Equal(t, 8, got.TotalCreditsAvailable)
	assert.Equal(t, -5, got.NextToPayClasses)
	assert.Equal(t, -250000, got.AmountDueNext)
}

// Кредитов меньше чем занятий: carryAfter уходит в минус, но доступные
// кредиты срезаются в ноль и план оплачивается целиком.
func TestComputeCarryoverNegativeCarry(t *testing.T) {
	got := ComputeCarryover(2, 5, 4, 50000)
	assert.Equal(t, -3, got.CarryAfterSettlement)
	assert.Equal(t, 0, got.TotalCreditsAvailable)
	assert.Equal(t, 4, got.NextToPayClasses)
	assert.Equal(t, 200000, got.AmountDueNext)
}

func TestComputeCarryoverDefaultFee(t *testing.T) {
	got := ComputeCarryover(0, 0, 3, 0)
	assert.Equal(t, 50000, got.FeePerClass)
	assert.Equal(t, 150000, got.AmountDueNext)
}

func TestComputeSettlementDispatch(t *testing.T) {
	resA, err := ComputeSettlement(ModeSimpleOffset, SettlementInputs{TotalClassesThisMonth: 3, RemainingCredits: 1, FeePerClass: 50000})
	assert.NoError(t, err)
	assert.Equal(t, ModeSimpleOffset, resA.Mode)
	assert.Equal(t, 100000, resA.AmountDue)

	resB, err := ComputeSettlement(ModeCarryover, SettlementInputs{CarryInCredit: 6, ThisMonthActual: 4, NextMonthPlanned: 8, FeePerClass: 50000})
	assert.NoError(t, err)
	assert.Equal(t, ModeCarryover, resB.Mode)
	assert.Equal(t, 300000, resB.AmountDueNext)

	_, err = ComputeSettlement("bogus", SettlementInputs{})
	assert.ErrorIs(t, err, ErrUnknownMode)
}
