package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/vistoria/internal/model"
)

// numericPattern matches plain decimal numbers. strconv.ParseFloat alone
// would also accept "NaN", "Inf" and hex floats.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// CSVSource reads a CSV export of the inspection form.
// Columns whose non-blank cells are all numeric are loaded as numbers,
// every other column as text.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source reading path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// Location implements Source.
func (s *CSVSource) Location() string { return s.path }

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return ParseCSV(f, true)
}

// ParseCSV reads a CSV table whose first record is the header.
// A UTF-8 byte order mark is dropped. When infer is false every cell is
// loaded as text, the way spreadsheet APIs hand out cell values.
func ParseCSV(r io.Reader, infer bool) (*model.Dataset, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}

	numeric := make([]bool, len(header))
	if infer {
		for col := range header {
			numeric[col] = isNumericColumn(records, col)
		}
	}

	d := model.NewDataset(headerNames(header))
	for _, rec := range records {
		values := make([]model.CellValue, len(header))
		for col := range header {
			if col >= len(rec) {
				values[col] = model.Empty()
				continue
			}
			values[col] = csvCell(rec[col], numeric[col])
		}
		d.AddRow(values)
	}
	return d, nil
}

func csvCell(raw string, numeric bool) model.CellValue {
	if strings.TrimSpace(raw) == "" {
		return model.Empty()
	}
	if numeric {
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return model.Number(n)
		}
	}
	return model.Text(raw)
}

func isNumericColumn(records [][]string, col int) bool {
	seen := false
	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[col])
		if v == "" {
			continue
		}
		if !numericPattern.MatchString(v) {
			return false
		}
		seen = true
	}
	return seen
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// headerNames names blank header cells "Unnamed: <i>".
func headerNames(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		out[i] = h
	}
	return out
}
