// Package export writes the call log to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dennisdiepolder/calldash/internal/calllog"
)

const (
	// SheetName is the worksheet holding the call log
	SheetName = "Call Logs"
	// ContentType is the MIME type of the workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Headers is the header row, in column order
var Headers = []string{
	"Call ID", "Direction", "Counterparty", "Type", "Duration",
	"Status", "Date", "Time", "Sentiment", "Successful",
}

func row(e calllog.Entry) []any {
	return []any{
		e.CallID, string(e.Direction), e.Counterparty, string(e.Type), e.Duration,
		e.Status, e.Date, e.Time, e.Sentiment, e.Successful,
	}
}

// WriteWorkbook writes entries as an .xlsx workbook with a bold header row
func WriteWorkbook(w io.Writer, entries []calllog.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, 1, toAny(Headers)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range entries {
		if err := writeRow(f, i+2, row(e)); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
