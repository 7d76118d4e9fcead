package docfill

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteReport writes an XLSX workbook describing one run: a Summary sheet
// with the fill counts, a Fields sheet with every extracted value and its
// candidate set, and an Unfilled sheet listing placeholders that stayed open.
func WriteReport(w io.Writer, res *Result) error {
	if res == nil {
		return fmt.Errorf("report: nil result")
	}

	f := excelize.NewFile()

	if err := writeSummarySheet(f, res); err != nil {
		return err
	}
	if err := writeFieldsSheet(f, res.Fields); err != nil {
		return err
	}
	if err := writeUnfilledSheet(f, res.Summary); err != nil {
		return err
	}

	// excelize starts with a default "Sheet1"; drop it once ours exist.
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex("Summary"); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func writeSummarySheet(f *excelize.File, res *Result) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	setRow(f, sheet, 1, "Metric", "Value")
	setRow(f, sheet, 2, "Run ID", res.RunID.String())
	setRow(f, sheet, 3, "Fields Extracted", res.Fields.Len())
	setRow(f, sheet, 4, "Placeholders", res.Summary.Placeholders)
	setRow(f, sheet, 5, "Filled", res.Summary.Filled)
	setRow(f, sheet, 6, "Unfilled", res.Summary.Unfilled)
	setRow(f, sheet, 7, "Unused Fields", len(res.Summary.UnusedFields))
	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func writeFieldsSheet(f *excelize.File, fields *FieldMap) error {
	const sheet = "Fields"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	setRow(f, sheet, 1, "Field", "Value", "Candidates")
	row := 2
	for _, key := range fields.Keys() {
		field, _ := fields.Get(key)
		var cands []string
		for _, c := range field.Candidates {
			if c.Confidence > 0 {
				cands = append(cands, fmt.Sprintf("%s (%.2f)", c.Value, c.Confidence))
			} else {
				cands = append(cands, c.Value)
			}
		}
		setRow(f, sheet, row, field.Key, field.Value, strings.Join(cands, "; "))
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "C", 48)
	return nil
}

func writeUnfilledSheet(f *excelize.File, summary *FillSummary) error {
	const sheet = "Unfilled"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	setRow(f, sheet, 1, "Placeholder")
	for i, key := range summary.UnmatchedPlaceholders {
		setRow(f, sheet, i+2, key)
	}
	_ = f.SetColWidth(sheet, "A", "A", 40)
	return nil
}
