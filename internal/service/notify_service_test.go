package service

import (
	"strings"
	"testing"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatBillingMessage(t *testing.T) {
	msg := FormatBillingMessage(&model.MonthlySettlement{
		StudentName:            "mina",
		YYYYMM:                 "202504",
		CarryInCredit:          6,
		ThisMonthActualClasses: 4,
		NextMonthPlanned:       8,
		TotalCreditsAvailable:  2,
		NextToPayClasses:       6,
		AmountDueNext:          300000,
	})

	assert.Contains(t, msg, "202504")
	assert.Contains(t, msg, "mina")
	assert.Contains(t, msg, "Classes to pay: 6")
	assert.Contains(t, msg, "Amount due: 300000 KRW")
	assert.False(t, strings.Contains(msg, "over-credited"))
}

func TestFormatBillingMessageOverCredited(t *testing.T) {
	msg := FormatBillingMessage(&model.MonthlySettlement{
		StudentName:      "mina",
		YYYYMM:           "202504",
		NextToPayClasses: -5,
		AmountDueNext:    -250000,
	})

	// отрицательная сумма не зануляется и сопровождается предупреждением
	assert.Contains(t, msg, "Amount due: -250000 KRW")
	assert.Contains(t, msg, "over-credited")
}
