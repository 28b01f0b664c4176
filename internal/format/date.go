package format

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthAbbreviations are the Portuguese month abbreviations used in
// extinguisher expiry dates.
var monthAbbreviations = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// MonthAbbreviation returns the Portuguese abbreviation of a month, or ""
// for an invalid month.
func MonthAbbreviation(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbreviations[m-1]
}

// MonthYear formats a time as "MMM-YYYY", for example "Dez-2026".
func MonthYear(t time.Time) string {
	return MonthAbbreviation(t.Month()) + "-" + strconv.Itoa(t.Year())
}

// Date formats a time as "DD-MM-YYYY".
func Date(t time.Time) string {
	return t.Format("02-01-2006")
}

// dateOf picks the extinguisher or generic date form.
func dateOf(t time.Time, extinguisher bool) string {
	if extinguisher {
		return MonthYear(t)
	}
	return Date(t)
}

// fromTimestamp formats timestamp cells.
func fromTimestamp(c cell) (string, bool) {
	t, ok := c.value.AsTime()
	if !ok {
		return "", false
	}
	return dateOf(t, c.extinguisher), true
}

// datePattern is a date-like pattern searched anywhere in the text.
// yearFirst tells which capture group holds the year.
type datePattern struct {
	re        *regexp.Regexp
	yearFirst bool
}

// datePatterns are tried in order; the first one found wins.
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})\s+\d{2}:\d{2}:\d{2}`), yearFirst: true},
	{re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), yearFirst: true},
	{re: regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)},
	{re: regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)},
}

// fromDatePattern formats text that contains a date. The digits are
// rearranged as found; only the extinguisher form validates the month.
func fromDatePattern(c cell) (string, bool) {
	text, ok := c.value.AsText()
	if !ok {
		return "", false
	}
	text = strings.TrimSpace(text)

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		day, month, year := m[1], m[2], m[3]
		if p.yearFirst {
			year, month, day = m[1], m[2], m[3]
		}

		if !c.extinguisher {
			return day + "-" + month + "-" + year, true
		}

		n, err := strconv.Atoi(month)
		if err != nil {
			return "", false
		}
		abbr := MonthAbbreviation(time.Month(n))
		if abbr == "" {
			return "", false
		}
		return abbr + "-" + year, true
	}
	return "", false
}

// dateLayouts are the whole-text layouts accepted by the generic date
// parser. Numeric layouts are day-first, as written in Brazil.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"02/01/06",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// monthFirstLayouts are tried only when no day-first layout fits, so
// "01/13/2026" still reads as January 13th.
var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1-2-2006",
}

// parseDate parses s with the first matching layout.
func parseDate(s string) (time.Time, bool) {
	for _, layouts := range [][]string{dateLayouts, monthFirstLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// fromDateLayout formats text that parses as a date in its entirety.
func fromDateLayout(c cell) (string, bool) {
	text, ok := c.value.AsText()
	if !ok {
		return "", false
	}
	t, ok := parseDate(strings.TrimSpace(text))
	if !ok {
		return "", false
	}
	return dateOf(t, c.extinguisher), true
}

// serialEpoch is the spreadsheet day-zero. Serial values are shifted by a
// further two days when converted.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial bounds for extinguisher dates typed as plain numbers.
const (
	minSerial = 1
	maxSerial = 100000
)

// fromExtinguisherSerial converts serial day numbers in extinguisher
// columns to "MMM-YYYY".
func fromExtinguisherSerial(c cell) (string, bool) {
	if !c.extinguisher {
		return "", false
	}
	n, ok := c.value.AsNumber()
	if !ok || n < minSerial || n > maxSerial {
		return "", false
	}
	return MonthYear(serialEpoch.AddDate(0, 0, int(n)-2)), true
}
