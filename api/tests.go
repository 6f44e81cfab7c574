package api

import (
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
)

type TestsHandler struct {
	tests *app.TestService
}

func NewTestsHandler(s *app.TestService) *TestsHandler {
	return &TestsHandler{tests: s}
}

// Record answers 201 when a new record is written and 200 when a Rejected
// one is overwritten.
func (h *TestsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req app.RecordTestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.tests.RecordTest(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, res.Record, status)
}

func (h *TestsHandler) History(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.tests.ListTestHistory(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}
