package model

import "testing"

// TestRecordSummaryDefaults tests that every field starts as N/A.
func TestRecordSummaryDefaults(t *testing.T) {
	t.Parallel()

	s := NewRecordSummary()
	for name, v := range map[string]string{
		"prefix":    s.Prefix,
		"city":      s.City,
		"inspector": s.Inspector,
		"date":      s.InspectionDate,
		"timestamp": s.Timestamp,
		"odometer":  s.Odometer,
		"wifi":      s.WiFi,
	} {
		if v != NotAvailable {
			t.Errorf("%s = %q, expected N/A", name, v)
		}
	}
	if s.HasOdometer() || s.HasWiFi() {
		t.Error("defaults should not report odometer or wifi")
	}
}

// TestRecordSummaryParts tests splitting the timestamp at the first space.
func TestRecordSummaryParts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		timestamp string
		date      string
		clock     string
	}{
		{"01-12-2026 08:30", "01-12-2026", "08:30"},
		{"01-12-2026", "01-12-2026", NotAvailable},
		{NotAvailable, NotAvailable, NotAvailable},
	}

	for _, tc := range testCases {
		t.Run(tc.timestamp, func(t *testing.T) {
			t.Parallel()
			s := RecordSummary{Timestamp: tc.timestamp}
			if got := s.DatePart(); got != tc.date {
				t.Errorf("DatePart() = %q, expected %q", got, tc.date)
			}
			if got := s.TimePart(); got != tc.clock {
				t.Errorf("TimePart() = %q, expected %q", got, tc.clock)
			}
		})
	}
}

// TestRecordSummaryOptionalFields tests the availability checks.
func TestRecordSummaryOptionalFields(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "nan", "None", " N/A "} {
		s := RecordSummary{Odometer: v, WiFi: v}
		if s.HasOdometer() || s.HasWiFi() {
			t.Errorf("%q should be treated as absent", v)
		}
	}
	s := RecordSummary{Odometer: "152340", WiFi: "Sim"}
	if !s.HasOdometer() || !s.HasWiFi() {
		t.Error("filled fields should be available")
	}
}

// TestReportTitle tests the report title line.
func TestReportTitle(t *testing.T) {
	t.Parallel()

	r := NewReport(3)
	r.Summary.Prefix = "21450"
	if got := r.Title(); got != "RELATÓRIO DE VISTORIA - PREFIXO 21450" {
		t.Errorf("Title() = %q", got)
	}
	if r.Index != 3 {
		t.Errorf("Index = %d, expected 3", r.Index)
	}
}
