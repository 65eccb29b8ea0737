package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheetName = "Payroll"
)

func (s *payrollServiceImpl) Export(ctx context.Context, id int64) (payroll.ExportFile, error) {
	sheet, err := s.Get(ctx, id)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	buf, err := renderSheet(sheet)
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to render payroll sheet: %w", err)
	}

	date := sheet.Payroll.Date("payroll_date")
	name := fmt.Sprintf("payroll-%s-%s.xlsx", date, uuid.NewString()[:8])
	stored, err := s.files.Upload(ctx, buf, fmt.Sprintf("payroll/%s/%s", date[:7], name))
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to store payroll sheet: %w", err)
	}

	return payroll.ExportFile{
		Name:        name,
		Path:        stored,
		URL:         s.files.URL(stored),
		ContentType: xlsxContentType,
	}, nil
}

// renderSheet lays out one row per employee with a column per salary head,
// earnings first, then deductions and non-taxable heads.
func renderSheet(sheet payroll.Sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, err
	}

	heads := sheet.SalaryHeads.Heads()
	header := []any{"Employee ID", "Name", "Basic Salary"}
	for _, h := range heads {
		header = append(header, h.Name)
	}
	header = append(header, "Gross Salary", "Status")
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheetName, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, row := range sheet.Details {
		details, _ := row["salary_details"].(salaryhead.Details)

		values := []any{row.String("employee_id"), row.String("full_name"), row.Decimal("basic_salary").InexactFloat64()}
		for _, h := range heads {
			values = append(values, details[h.ID].InexactFloat64())
		}
		values = append(values, row.Decimal("gross_salary").InexactFloat64(), row.String("status_text"))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	totalRow := len(sheet.Details) + 3
	totalLabel, _ := excelize.CoordinatesToCellName(len(header)-2, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(len(header)-1, totalRow)
	if err := f.SetCellValue(exportSheetName, totalLabel, "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(exportSheetName, totalCell, sheet.Payroll.Decimal("total_salary").InexactFloat64()); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
