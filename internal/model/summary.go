package model

import "strings"

// NotAvailable is the sentinel for identification fields that could not be
// located or are blank.
const NotAvailable = "N/A"

// RecordSummary holds the identification fields of one inspection.
// It is used both as the report header and as a list-view row.
type RecordSummary struct {
	Prefix         string `json:"prefix"`
	City           string `json:"city"`
	Inspector      string `json:"inspector"`
	InspectionDate string `json:"inspection_date"`

	// Timestamp is the submission time formatted as "DD-MM-YYYY HH:MM"
	// when it could be parsed.
	Timestamp string `json:"timestamp"`

	Odometer string `json:"odometer"`
	WiFi     string `json:"wifi"`
}

// NewRecordSummary returns a summary with every field set to NotAvailable.
func NewRecordSummary() RecordSummary {
	return RecordSummary{
		Prefix:         NotAvailable,
		City:           NotAvailable,
		Inspector:      NotAvailable,
		InspectionDate: NotAvailable,
		Timestamp:      NotAvailable,
		Odometer:       NotAvailable,
		WiFi:           NotAvailable,
	}
}

// DatePart returns the timestamp up to the first space.
func (s RecordSummary) DatePart() string {
	date, _, _ := strings.Cut(s.Timestamp, " ")
	return date
}

// TimePart returns the timestamp after the first space, or NotAvailable.
func (s RecordSummary) TimePart() string {
	_, clock, found := strings.Cut(s.Timestamp, " ")
	if !found {
		return NotAvailable
	}
	clock, _, _ = strings.Cut(clock, " ")
	return clock
}

// HasOdometer reports whether an odometer reading is available.
func (s RecordSummary) HasOdometer() bool {
	return isAvailable(s.Odometer)
}

// HasWiFi reports whether the Wi-Fi field is available.
func (s RecordSummary) HasWiFi() bool {
	return isAvailable(s.WiFi)
}

// isAvailable rejects the sentinels spreadsheet tooling leaves behind.
func isAvailable(v string) bool {
	switch strings.TrimSpace(v) {
	case "", NotAvailable, "nan", "None":
		return false
	default:
		return true
	}
}

// RecordRow is one line of the inspection listing.
type RecordRow struct {
	Index     int    `json:"index"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Prefix    string `json:"prefix"`
	City      string `json:"city"`
	Inspector string `json:"inspector"`
}

// NewRecordRow builds a listing row from a summary.
func NewRecordRow(index int, s RecordSummary) RecordRow {
	return RecordRow{
		Index:     index,
		Date:      s.DatePart(),
		Time:      s.TimePart(),
		Prefix:    s.Prefix,
		City:      s.City,
		Inspector: s.Inspector,
	}
}

// Report is one assembled inspection: header fields plus document body.
type Report struct {
	// Index is the row position in the dataset.
	Index int `json:"index"`

	Summary  RecordSummary `json:"summary"`
	Document Document      `json:"document"`

	// Error records a failure while producing the report, if any.
	Error string `json:"error,omitempty"`

	// Steps lists the pipeline steps that ran.
	Steps []string `json:"-"`
}

// NewReport creates an empty report for a row index.
func NewReport(index int) *Report {
	return &Report{
		Index:   index,
		Summary: NewRecordSummary(),
	}
}

// Title returns the report title line.
func (r *Report) Title() string {
	return "RELATÓRIO DE VISTORIA - PREFIXO " + r.Summary.Prefix
}

// Dashboard aggregates the dataset for the overview panel.
type Dashboard struct {
	TotalRecords   int    `json:"total_records"`
	Cities         int    `json:"cities"`
	Inspectors     int    `json:"inspectors"`
	LastInspection string `json:"last_inspection"`
}

// Listing is the overview of a dataset: aggregates plus one row per
// record, in dataset order.
type Listing struct {
	// Source names the data source that served the dataset.
	Source string `json:"source,omitempty"`

	Dashboard Dashboard   `json:"dashboard"`
	Records   []RecordRow `json:"records"`
}
