package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/vistoria/internal/model"
)

// XLSXSource reads the first worksheet of a local workbook.
// The first row is the header. Numeric cells become numbers, numeric cells
// with a date or time number format become timestamps and everything else
// is text.
type XLSXSource struct {
	path string
}

// NewXLSXSource creates a source reading path.
func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

// Name implements Source.
func (s *XLSXSource) Name() string { return "xlsx" }

// Location implements Source.
func (s *XLSXSource) Location() string { return s.path }

// Load implements Source.
func (s *XLSXSource) Load(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := firstSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	r := &sheetReader{f: f, sheet: sheet, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	header := headerNames(rows[0])
	d := model.NewDataset(header)
	for i, raw := range rows[1:] {
		if isBlankRecord(raw) {
			continue
		}
		values := make([]model.CellValue, len(header))
		for col := range header {
			if col >= len(raw) {
				values[col] = model.Empty()
				continue
			}
			// rows[0] is sheet row 1, so rows[1+i] is sheet row i+2
			values[col] = r.cell(col+1, i+2, raw[col])
		}
		d.AddRow(values)
	}
	return d, nil
}

func firstSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheet
	}
	return sheets[0], nil
}

// sheetReader types raw cell values using the workbook's cell types and
// number formats. Date detection is cached per style id.
type sheetReader struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool
	date1904   bool
}

// cell converts the raw value at 1-based (col, row).
func (r *sheetReader) cell(col, row int, raw string) model.CellValue {
	if strings.TrimSpace(raw) == "" {
		return model.Empty()
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return model.Text(raw)
	}

	typ, err := r.f.GetCellType(r.sheet, name)
	if err != nil {
		return model.Text(raw)
	}

	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Text(raw)
		}
		if r.isDateCell(name) {
			t, err := excelize.ExcelDateToTime(n, r.date1904)
			if err == nil {
				return model.Timestamp(t.Round(time.Second))
			}
		}
		return model.Number(n)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return model.Timestamp(t)
			}
		}
		return model.Text(raw)
	default:
		return model.Text(raw)
	}
}

// isDateCell reports whether the cell's number format displays a date or
// a time.
func (r *sheetReader) isDateCell(name string) bool {
	id, err := r.f.GetCellStyle(r.sheet, name)
	if err != nil || id == 0 {
		return false
	}
	if isDate, ok := r.dateStyles[id]; ok {
		return isDate
	}

	isDate := false
	if style, err := r.f.GetStyle(id); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	r.dateStyles[id] = isDate
	return isDate
}

// isDateFormat reports whether a number format renders dates or times.
// Built-in ids follow ECMA-376 18.8.30 plus the CJK date formats.
func isDateFormat(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode inspects a custom format code such as "dd/mm/yyyy hh:mm".
// Quoted literals, escaped characters and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, c := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(c)
		}
	}
	stripped := b.String()
	if strings.Contains(stripped, "general") {
		return false
	}
	return strings.ContainsAny(stripped, "ydhs") || strings.Contains(stripped, "m")
}
