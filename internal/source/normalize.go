package source

import (
	"sort"
	"time"

	"github.com/nao1215/vistoria/internal/match"
	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/summary"
)

// submissionKeywords identify the form's submission timestamp column.
var submissionKeywords = match.NewKeywords("carimbo", "data")

// SubmissionColumn returns the first column whose name contains both
// "carimbo" and "data", ignoring case.
func SubmissionColumn(columns []string) (string, bool) {
	for _, col := range columns {
		if submissionKeywords.AllIn(match.Fold(col)) {
			return col, true
		}
	}
	return "", false
}

// Normalize converts the submission timestamp column to timestamps and
// orders rows newest first. Text values that do not parse keep their text
// and sort after every parsed row. The sort is stable, so rows with equal
// or unparseable timestamps keep their source order. Datasets without a
// submission column are left untouched.
func Normalize(d *model.Dataset) {
	if d.Empty() {
		return
	}
	col, ok := SubmissionColumn(d.Columns())
	if !ok {
		return
	}

	type keyed struct {
		row    model.Row
		at     time.Time
		parsed bool
	}

	rows := d.Rows()
	items := make([]keyed, len(rows))
	for i, row := range rows {
		items[i].row = row
		v := row.Get(col)
		t, ok := summary.ParseTimestamp(v)
		if !ok {
			continue
		}
		items[i].at = t
		items[i].parsed = true
		if _, already := v.AsTime(); !already {
			values := row.Values()
			for j, c := range d.Columns() {
				if c == col {
					values[j] = model.Timestamp(t)
				}
			}
			items[i].row = model.NewRow(d.Columns(), values)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		return a.at.After(b.at)
	})

	sorted := make([]model.Row, len(items))
	for i, it := range items {
		sorted[i] = it.row
	}
	d.SetRows(sorted)
}
