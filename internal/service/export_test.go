package service

import (
	"testing"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSettlementWorkbook(t *testing.T) {
	f, err := BuildSettlementWorkbook("202504", []*model.MonthlySettlement{
		{
			StudentName:            "mina",
			TeacherName:            "sunny",
			YYYYMM:                 "202504",
			ThisMonthActualClasses: 4,
			NextMonthPlanned:       8,
			NextToPayClasses:       6,
			FeePerClass:            50000,
			AmountDueNext:          300000,
			FinalSave:              true,
		},
		{StudentName: "juno", YYYYMM: "202504", NextToPayClasses: -5, AmountDueNext: -250000},
	})
	require.NoError(t, err)
	defer f.Close()

	sheet := "Settlements 202504"

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Student", header)

	student, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "mina", student)

	amount, err := f.GetCellValue(sheet, "J2")
	require.NoError(t, err)
	assert.Equal(t, "300000", amount)

	// отрицательная сумма выгружается как есть
	negative, err := f.GetCellValue(sheet, "J3")
	require.NoError(t, err)
	assert.Equal(t, "-250000", negative)
}
