package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/pipeline"
	"github.com/nao1215/vistoria/internal/report"
	"github.com/nao1215/vistoria/internal/source"
	"github.com/nao1215/vistoria/internal/summary"
)

// DataSourceHeader names the source that served the dataset.
const DataSourceHeader = "X-Data-Source"

// dashboardResponse is the body of GET /api/dashboard.
type dashboardResponse struct {
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
	Cached    bool            `json:"cached"`
	Dashboard model.Dashboard `json:"dashboard"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fetch loads the dataset and sets the data source header.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (source.Result, bool) {
	res, err := s.fetcher.Fetch(r.Context())
	if err != nil {
		s.logger.Error("failed to load dataset", "error", err)
		writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
		return source.Result{}, false
	}
	w.Header().Set(DataSourceHeader, res.Source)
	return res, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		Source:    res.Source,
		FetchedAt: res.FetchedAt,
		Cached:    res.Cached,
		Dashboard: summary.Dashboard(res.Dataset),
	})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	res, ok := s.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary.Listing(res.Dataset, res.Source))
}

// buildReport builds the report of the record named by the {index} URL
// parameter, writing the error response itself on failure.
func (s *Server) buildReport(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "record index must be an integer")
		return nil, false
	}

	res, ok := s.fetch(w, r)
	if !ok {
		return nil, false
	}

	rep, err := pipeline.BuildReport(r.Context(), res.Dataset, index, s.mapping, pipeline.WithLogger(s.logger))
	switch {
	case errors.Is(err, pipeline.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record not found")
		return nil, false
	case err != nil:
		s.logger.Error("failed to build report", "record", index, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return nil, false
	}
	return rep, true
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.NewJSONReport(rep))
}

func (s *Server) handleRecordReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	rw, err := report.New(format, &buf)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := rw.Write(rep); err != nil {
		s.logger.Error("failed to render report", "record", rep.Index, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	filename := report.FilenameFor(rep, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// errorResponse is the JSON body of error responses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v) //nolint:errcheck,errchkjson // headers are already sent
}
