package export

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

func TestExcelExporter(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExcelExporter(filepath.Join(dir, "exports"))
	userID := uuid.New()

	rows := []entity.ReportRow{
		{
			Date:        time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
			Direction:   entity.DirectionIncome,
			Amount:      decimal.NewFromInt(1000),
			Description: "Salary",
		},
		{
			Date:        time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC),
			Direction:   entity.DirectionExpense,
			Category:    "Food",
			Amount:      decimal.New(4550, -1),
			Description: "lunch",
			IsImpulsive: true,
		},
	}

	path, err := exporter.Export(context.Background(), userID, "Report 2025-05", rows)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(path, ".xlsx") || !strings.Contains(path, userID.String()) {
		t.Errorf("path = %q", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue("Report", ref)
		if err != nil {
			t.Fatalf("read %s: %v", ref, err)
		}
		return v
	}

	if got := cell("A1"); got != "Report 2025-05" {
		t.Errorf("title = %q", got)
	}
	if got := cell("B3"); got != "Income" {
		t.Errorf("first row type = %q", got)
	}
	if got := cell("C4"); got != "Food" {
		t.Errorf("second row category = %q", got)
	}
	if got := cell("D4"); got != "455" {
		t.Errorf("second row amount = %q", got)
	}
	if got := cell("F4"); got != "yes" {
		t.Errorf("impulsive marker = %q", got)
	}
}

func TestExcelExporterHonorsCancelledContext(t *testing.T) {
	exporter := NewExcelExporter(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exporter.Export(ctx, uuid.New(), "Report", nil); err == nil {
		t.Fatal("cancelled context should fail the export")
	}
}
