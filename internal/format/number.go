package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/vistoria/internal/model"
)

var (
	// numberListPattern matches text made only of digits and separators.
	numberListPattern = regexp.MustCompile(`^[\d\s,;]+$`)

	// digitsPattern extracts the numbers of a number list.
	digitsPattern = regexp.MustCompile(`\d+`)

	// trailingZeroPattern finds integers written with a ".0" suffix.
	trailingZeroPattern = regexp.MustCompile(`\b\d+\.0\b`)
)

// integral reports whether f is a finite whole number.
func integral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// formatFloat prints whole numbers without a decimal part and other
// values in their shortest form, switching to exponent notation below
// 1e-4 the way spreadsheet exports print them.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 0) || math.IsNaN(f):
		return model.Number(f).String()
	case f == 0:
		return "0"
	case !integral(f) && math.Abs(f) < 1e-4:
		return strconv.FormatFloat(f, 'e', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// fromNumber formats numeric cells.
func fromNumber(c cell) (string, bool) {
	f, ok := c.value.AsNumber()
	if !ok {
		return "", false
	}
	return formatFloat(f), true
}

// fromText cleans up free text: number lists are joined with ", ",
// "48.0" becomes "48" and numeric text loses its decimal part when whole.
func fromText(c cell) (string, bool) {
	text, ok := c.value.AsText()
	if !ok {
		return "", false
	}
	text = strings.TrimSpace(text)

	if numberListPattern.MatchString(text) {
		if numbers := digitsPattern.FindAllString(text, -1); len(numbers) > 0 {
			return strings.Join(numbers, ", "), true
		}
	}

	text = trailingZeroPattern.ReplaceAllStringFunc(text, func(s string) string {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return s
		}
		return formatFloat(f)
	})

	if f, err := strconv.ParseFloat(text, 64); err == nil && integral(f) {
		return formatFloat(f), true
	}
	return text, true
}

// Number formats a cell as a plain number where possible: whole numbers
// lose their ".0" and numeric text is normalized the same way. Other text
// is returned trimmed and empty cells yield "".
func Number(v model.CellValue) string {
	switch {
	case v.IsEmpty():
		return ""
	case v.Kind() == model.KindNumber:
		f, _ := v.AsNumber()
		return formatFloat(f)
	case v.Kind() == model.KindText:
		text, _ := v.AsText()
		text = strings.TrimSpace(text)
		if f, err := strconv.ParseFloat(text, 64); err == nil && integral(f) {
			return formatFloat(f)
		}
		return text
	default:
		return v.String()
	}
}
