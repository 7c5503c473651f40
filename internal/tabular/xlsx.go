package tabular

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of an Office Open XML workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportSheet = "Sheet1"

// ReadXLSX loads the first worksheet of a workbook. Blank rows are dropped like blank
// lines in Parse. Rows shorter than the header are right-padded because workbooks do
// not store trailing empty cells; longer rows are left for the validator to reject.
// Cells are read as stored rather than as displayed, and cells with a date number
// format come back as yyyy-mm-dd.
func ReadXLSX(r io.Reader) (Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	dates := newDateCells(f, sheetName)
	var doc Document
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		for j, value := range row {
			if row[j], err = dates.convert(i, j, value); err != nil {
				return nil, err
			}
		}
		doc = append(doc, row)
	}
	if len(doc) == 0 {
		return doc, nil
	}

	width := len(doc[0])
	for i := 1; i < len(doc); i++ {
		if len(doc[i]) < width {
			padded := make([]string, width)
			copy(padded, doc[i])
			doc[i] = padded
		}
	}
	return doc, nil
}

// dateCells rewrites serial date numbers in date-formatted cells, caching the
// date check per style.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateCells) convert(row, col int, value string) (string, error) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value, nil
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", err
	}
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	isDate, ok := d.styles[styleID]
	if !ok {
		style, err := d.f.GetStyle(styleID)
		if err != nil {
			return "", fmt.Errorf("failed to read style of %s: %w", cell, err)
		}
		isDate = isDateFormat(style)
		d.styles[styleID] = isDate
	}
	if !isDate {
		return value, nil
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return value, nil
	}
	return t.Format("2006-01-02"), nil
}

// Built-in number formats that show a calendar date.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

var quotedLiteral = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		code := strings.ToLower(quotedLiteral.ReplaceAllString(*style.CustomNumFmt, ""))
		return strings.ContainsAny(code, "yd")
	}
	return builtinDateFormats[style.NumFmt]
}

// WriteXLSX writes headers and rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	all := append([][]string{headers}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
