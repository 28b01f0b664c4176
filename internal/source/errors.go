package source

import "errors"

// Acquisition errors.
// A Chain logs these and moves on to the next source; callers of a single
// source can tell failure modes apart with errors.Is.
var (
	// ErrNoHeader is returned when a sheet or CSV file has no header row.
	ErrNoHeader = errors.New("no header row")

	// ErrNoSheet is returned when a workbook has no worksheet.
	ErrNoSheet = errors.New("workbook has no sheets")

	// ErrRemoteStatus is returned when the remote sheet answers with a
	// status other than 200 OK.
	ErrRemoteStatus = errors.New("unexpected HTTP status")

	// ErrNotCSV is returned when the remote sheet answers with an HTML page,
	// which is what a private sheet's export URL serves.
	ErrNotCSV = errors.New("response is not CSV")

	// ErrNoSources is returned when a Chain is built without sources.
	ErrNoSources = errors.New("no sources configured")
)
