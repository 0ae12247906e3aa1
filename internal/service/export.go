package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/model"

	"github.com/xuri/excelize/v2"
)

// exportTimeLayout renders timestamps the way the admin panel does (dd/mm/yyyy).
const exportTimeLayout = "02/01/2006 15:04"

// exportHeader is the fixed column order of every export format.
var exportHeader = []string{
	"Cashier", "Opened At", "Closed At", "Starting Cash",
	"Total Sales", "Ending Cash", "Variance", "Status",
}

// ExportFileName builds the download name with the export date embedded.
func ExportFileName(ext string, now time.Time) string {
	return fmt.Sprintf("session-history-%s.%s", now.Format("2006-01-02"), ext)
}

func exportRow(s *model.CashierSession) []string {
	closedAt := "-"
	if s.ClosedAt != nil {
		closedAt = s.ClosedAt.Format(exportTimeLayout)
	}
	endingCash := "0"
	if s.EndingCash != nil {
		endingCash = s.EndingCash.String()
	}
	return []string{
		s.DisplayName(),
		s.OpenedAt.Format(exportTimeLayout),
		closedAt,
		s.StartingCash.String(),
		s.TotalSales.String(),
		endingCash,
		s.ComputedVariance().String(),
		s.Status,
	}
}

// ExportCSV serializes the visible subset as an RFC 4180 document: header
// row, one row per session, newline-terminated. Numeric fields stay plain
// (no currency formatting) so the file remains machine-parseable; fields
// containing separators or quotes are quoted by the writer.
func ExportCSV(sessions []model.CashierSession) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range sessions {
		if err := w.Write(exportRow(&sessions[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX writes the same table as a single-sheet workbook.
func ExportXLSX(sessions []model.CashierSession) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sessions"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i := range sessions {
		for col, v := range exportRow(&sessions[i]) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
