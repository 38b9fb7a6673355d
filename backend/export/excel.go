package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	WaterSheet  = "Water Logs"
	EnergySheet = "Energy Logs"
)

var (
	waterHeader  = []interface{}{"ID", "Date", "Quantity", "Unit", "Litres", "Category", "Logged At"}
	energyHeader = []interface{}{"ID", "Date", "Quantity", "Unit", "Logged At"}
)

// WaterWorkbook renders logs as a single-sheet xlsx file, one row per entry under a header row.
func WaterWorkbook(logs []models.WaterLog) ([]byte, error) {
	rows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []interface{}{
			l.ID,
			l.Date.String(),
			l.Qty,
			string(l.Unit),
			l.QtyLitres,
			string(l.Category),
			l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeWorkbook(WaterSheet, waterHeader, rows)
}

func EnergyWorkbook(logs []models.EnergyLog) ([]byte, error) {
	rows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []interface{}{
			l.ID,
			l.Date.String(),
			l.Qty,
			string(l.Unit),
			l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeWorkbook(EnergySheet, energyHeader, rows)
}

// Filename is <kind>-logs-<scope>-<YYYY-MM-DD>.xlsx.
func Filename(kind, scope string, day models.Date) string {
	return fmt.Sprintf("%s-logs-%s-%s.xlsx", kind, scope, day)
}

func writeWorkbook(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
