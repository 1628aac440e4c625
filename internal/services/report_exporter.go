package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

const (
	reportSheet       = "Laporan"
	reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	reportHeaderRow   = 3
)

var reportColumns = []string{"NIS", "Nama Lengkap", "Email", "Kelas", "Status", "Status SPP", "Tunggakan"}

// ReportSink turns the roster into a downloadable document.
type ReportSink interface {
	Render(ctx context.Context, students []models.Student, generatedAt time.Time) (*models.ReportDocument, error)
}

type excelReportSink struct{}

// NewExcelReportSink renders reports as XLSX workbooks.
func NewExcelReportSink() ReportSink {
	return excelReportSink{}
}

func (excelReportSink) Render(ctx context.Context, students []models.Student, generatedAt time.Time) (*models.ReportDocument, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	_ = f.SetCellValue(reportSheet, "A1", "Laporan Keuangan")
	_ = f.SetCellValue(reportSheet, "A2", "Dicetak "+utils.FormatDate(generatedAt))

	header := make([]interface{}, len(reportColumns))
	for i, c := range reportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(reportSheet, cell(1, reportHeaderRow), &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	_ = f.SetCellStyle(reportSheet, "A1", "A1", bold)
	_ = f.SetCellStyle(reportSheet, cell(1, reportHeaderRow), cell(len(reportColumns), reportHeaderRow), bold)

	rupiah := `"Rp" #,##0`
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &rupiah})
	if err != nil {
		return nil, fmt.Errorf("failed to create currency style: %w", err)
	}

	var total int64
	for i, s := range students {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := reportHeaderRow + 1 + i
		values := []interface{}{
			s.NIS, s.Name, s.Email, s.ClassName,
			s.EnrollmentStatus.Label(), string(s.PaymentStatus), s.OutstandingBalance,
		}
		if err := f.SetSheetRow(reportSheet, cell(1, row), &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		total += s.OutstandingBalance
	}

	totalRow := reportHeaderRow + 1 + len(students)
	_ = f.SetCellValue(reportSheet, cell(len(reportColumns)-1, totalRow), "Total Tunggakan")
	_ = f.SetCellValue(reportSheet, cell(len(reportColumns), totalRow), total)
	_ = f.SetCellStyle(reportSheet, cell(len(reportColumns)-1, totalRow), cell(len(reportColumns)-1, totalRow), bold)
	_ = f.SetCellStyle(reportSheet, cell(len(reportColumns), reportHeaderRow+1), cell(len(reportColumns), totalRow), money)
	_ = f.SetColWidth(reportSheet, "B", "C", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &models.ReportDocument{
		FileName:    fmt.Sprintf("laporan-keuangan-%s.xlsx", generatedAt.Format("20060102-150405")),
		ContentType: reportContentType,
		Content:     buf.Bytes(),
		Rows:        len(students),
		CreatedAt:   generatedAt,
	}, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
