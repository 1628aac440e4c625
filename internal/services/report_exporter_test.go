package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

func TestExcelReportSink_Render(t *testing.T) {
	at := time.Date(2025, time.August, 17, 10, 30, 0, 0, time.UTC)
	doc, err := NewExcelReportSink().Render(context.Background(), models.SeedStudents(), at)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.FileName != "laporan-keuangan-20250817-103000.xlsx" {
		t.Errorf("FileName = %s", doc.FileName)
	}
	if doc.Rows != 4 {
		t.Errorf("Rows = %d", doc.Rows)
	}

	f, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "Laporan Keuangan",
		"A2": "Dicetak 17 Agustus 2025",
		"A3": "NIS",
		"G3": "Tunggakan",
		"A4": "2024001",
		"B5": "Siti Fatimah",
		"E7": "Lulus",
		"F8": "Total Tunggakan",
	}
	for ref, want := range checks {
		got, err := f.GetCellValue(reportSheet, ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", ref, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}

	total, err := f.GetCellValue(reportSheet, "G8", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if total != "1500000" {
		t.Errorf("total = %q, want 1500000", total)
	}
}

func TestExcelReportSink_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExcelReportSink().Render(ctx, models.SeedStudents(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "canceled") {
		t.Errorf("Render() error = %v, want context canceled", err)
	}
}
