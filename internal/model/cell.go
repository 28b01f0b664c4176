package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// CellKind identifies which variant a CellValue holds.
type CellKind int

const (
	// KindEmpty is an absent or null cell.
	KindEmpty CellKind = iota

	// KindText is a free-text cell.
	KindText

	// KindNumber is a numeric cell. Spreadsheet numbers are always float64.
	KindNumber

	// KindTimestamp is a date or date-time cell.
	KindTimestamp
)

// String returns the kind name used in JSON encoding.
func (k CellKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// CellValue is a single raw spreadsheet cell.
// The zero value is an empty cell.
type CellValue struct {
	kind   CellKind
	text   string
	number float64
	time   time.Time
}

// Empty returns an empty cell.
func Empty() CellValue {
	return CellValue{}
}

// Text returns a text cell. The text is stored verbatim, including
// surrounding whitespace and line breaks.
func Text(s string) CellValue {
	return CellValue{kind: KindText, text: s}
}

// Number returns a numeric cell. NaN is treated as an empty cell because
// spreadsheet readers use it to represent missing values.
func Number(f float64) CellValue {
	if math.IsNaN(f) {
		return Empty()
	}
	return CellValue{kind: KindNumber, number: f}
}

// Timestamp returns a date/time cell. The zero time is treated as empty.
func Timestamp(t time.Time) CellValue {
	if t.IsZero() {
		return Empty()
	}
	return CellValue{kind: KindTimestamp, time: t}
}

// Kind returns the variant held by the cell.
func (c CellValue) Kind() CellKind {
	return c.kind
}

// IsEmpty reports whether the cell is absent.
func (c CellValue) IsEmpty() bool {
	return c.kind == KindEmpty
}

// AsText returns the text of a text cell.
func (c CellValue) AsText() (string, bool) {
	return c.text, c.kind == KindText
}

// AsNumber returns the value of a numeric cell.
func (c CellValue) AsNumber() (float64, bool) {
	return c.number, c.kind == KindNumber
}

// AsTime returns the value of a timestamp cell.
func (c CellValue) AsTime() (time.Time, bool) {
	return c.time, c.kind == KindTimestamp
}

// String returns the verbatim string coercion of the cell.
// Integral numbers keep a trailing ".0" and timestamps use
// "YYYY-MM-DD HH:MM:SS", which is how spreadsheet tooling prints them.
// Empty cells return "".
func (c CellValue) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return formatRawNumber(c.number)
	case KindTimestamp:
		return c.time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// formatRawNumber prints a float the way a dynamic language's str() would:
// integral values keep one decimal place.
func formatRawNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// cellJSON is the wire form of CellValue.
type cellJSON struct {
	Kind   string     `json:"kind"`
	Text   *string    `json:"text,omitempty"`
	Number *float64   `json:"number,omitempty"`
	Time   *time.Time `json:"time,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c CellValue) MarshalJSON() ([]byte, error) {
	w := cellJSON{Kind: c.kind.String()}
	switch c.kind {
	case KindText:
		w.Text = &c.text
	case KindNumber:
		if math.IsInf(c.number, 0) {
			return nil, fmt.Errorf("cannot encode infinite number %v", c.number)
		}
		w.Number = &c.number
	case KindTimestamp:
		w.Time = &c.time
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	var w cellJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Kind {
	case "", "empty":
		*c = Empty()
	case "text":
		if w.Text == nil {
			return fmt.Errorf("text cell without text")
		}
		*c = Text(*w.Text)
	case "number":
		if w.Number == nil {
			return fmt.Errorf("number cell without number")
		}
		*c = Number(*w.Number)
	case "timestamp":
		if w.Time == nil {
			return fmt.Errorf("timestamp cell without time")
		}
		*c = Timestamp(*w.Time)
	default:
		return fmt.Errorf("unknown cell kind %q", w.Kind)
	}
	return nil
}
