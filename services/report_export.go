package services

import (
	"bytes"
	"fmt"
	"gestionale_veicoli_go/models"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportCasesExcel builds the downloadable workbook of the case list with
// the given column set. Rows come in already sorted by the board.
func ExportCasesExcel(cases []models.Case, columns []ReportColumn) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Pratiche"
	f.SetSheetName("Sheet1", sheet)

	for i, column := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, column.Label)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for rowIdx := range cases {
		for colIdx, column := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, column.Accessor(&cases[rowIdx]))
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	f.SetColWidth(sheet, "A", lastCol, 22)

	// Summary sheet with export metadata
	summary := "Riepilogo"
	f.NewSheet(summary)
	f.SetCellValue(summary, "A1", "Report mezzi con tutti i titoli")
	f.SetCellValue(summary, "A3", "Generato il")
	f.SetCellValue(summary, "B3", time.Now().Format("02/01/2006 15:04"))
	f.SetCellValue(summary, "A4", "Pratiche incluse")
	f.SetCellValue(summary, "B4", len(cases))
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(summary, "A1", "A1", titleStyle)
	f.SetColWidth(summary, "A", "B", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
