package service

import (
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/xuri/excelize/v2"
)

// settlementExportHeader колонки месячной выгрузки расчётов
var settlementExportHeader = []string{
	"Student", "Teacher", "Month",
	"Carry-in credits", "Classes this month", "Planned next month",
	"Credits remaining", "Classes to pay", "Fee per class", "Amount due",
	"Finalized",
}

// BuildSettlementWorkbook собирает xlsx с действующими снимками расчётов
// за месяц, по строке на студента
func BuildSettlementWorkbook(yyyymm string, settlements []*model.MonthlySettlement) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := "Settlements " + yyyymm
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range settlementExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("set header cell: %w", err)
		}
	}

	for i, s := range settlements {
		values := []interface{}{
			s.StudentName,
			s.TeacherName,
			s.YYYYMM,
			s.CarryInCredit,
			s.ThisMonthActualClasses,
			s.NextMonthPlanned,
			s.TotalCreditsAvailable,
			s.NextToPayClasses,
			s.FeePerClass,
			s.AmountDueNext,
			s.FinalSave,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	return f, nil
}
