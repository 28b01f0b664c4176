// Package web provides the HTTP server of vistoria: a JSON listing of the
// inspection records, the dashboard aggregates and per-record reports for
// download, behind HTTP basic authentication.
package web
