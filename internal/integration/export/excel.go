// Package export renders report projections into xlsx workbooks.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/finance-assistant/bot/internal/domain/entity"
)

const sheetName = "Report"

// ExcelExporter implements adapter.ReportExporter by writing workbooks into
// a local directory and returning the file path.
type ExcelExporter struct {
	dir string
}

// NewExcelExporter creates an exporter writing into dir. The directory is
// created on first use.
func NewExcelExporter(dir string) *ExcelExporter {
	return &ExcelExporter{dir: dir}
}

// Export writes the rows into an xlsx file and returns its path.
func (e *ExcelExporter) Export(ctx context.Context, userID uuid.UUID, title string, rows []entity.ReportRow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", title)

	headers := []string{"Date", "Type", "Category", "Amount", "Description", "Impulsive"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c2", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, row := range rows {
		line := idx + 3

		direction := "Expense"
		if row.Direction == entity.DirectionIncome {
			direction = "Income"
		}
		impulsive := ""
		if row.IsImpulsive {
			impulsive = "yes"
		}
		amount, _ := row.Amount.Float64()

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", line), row.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", line), direction)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", line), row.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", line), amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", line), row.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", line), impulsive)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 32)
	f.SetColWidth(sheetName, "F", "F", 10)

	name := fmt.Sprintf("report_%s_%s.xlsx", userID, time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return path, nil
}
