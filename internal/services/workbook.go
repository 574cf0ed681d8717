package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/testtask-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// DecodeTaskWorkbook reads the first sheet of an xlsx workbook into a typed grid.
func DecodeTaskWorkbook(data []byte) ([][]Cell, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrSourceNoSheets
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	grid := make([][]Cell, len(rows))
	for rowIndex, row := range rows {
		cells := make([]Cell, len(row))
		for colIndex, value := range row {
			cells[colIndex] = typedCell(f, sheetName, colIndex, rowIndex, value)
		}
		grid[rowIndex] = cells
	}
	return grid, nil
}

// typedCell keeps string cells as text even when they look numeric.
func typedCell(f *excelize.File, sheet string, col, row int, value string) Cell {
	if value == "" {
		return Cell{Kind: CellEmpty}
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return TextCell(value)
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return TextCell(value)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return BoolCell(value == "1" || strings.EqualFold(value, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError:
		return TextCell(value)
	}

	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return NumberCell(n)
	}
	return TextCell(value)
}

// EncodeResultWorkbook writes a single-sheet workbook holding the result rows.
// Empty rows are kept as blank separator rows.
func EncodeResultWorkbook(sheet *models.ResultSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheet.Name
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name Excel sheet: %w", err)
	}

	for rowIndex, row := range sheet.Rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+1)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", rowIndex+1, err)
		}
		values := []interface{}(row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowIndex+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
