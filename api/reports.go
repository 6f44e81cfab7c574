package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
)

type ReportsHandler struct {
	reports *app.ReportService
}

func NewReportsHandler(s *app.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: s}
}

// Eligibility always answers 200; the verdict carries the outcome.
func (h *ReportsHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.reports.Eligibility(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, v, http.StatusOK)
}

func (h *ReportsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req app.GenerateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := h.reports.GenerateReport(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, rep, http.StatusOK)
}

// Export serves the rendered text document as a download.
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	name, body, err := h.reports.Export(r.Context(), app.GenerateReportRequest{
		AircraftCode: code,
		Author:       r.URL.Query().Get("author"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		logger.Error("write report", slog.Any("err", err))
	}
}
