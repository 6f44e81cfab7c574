package api

import (
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
)

type AircraftHandler struct {
	aircraft *app.AircraftService
}

func NewAircraftHandler(s *app.AircraftService) *AircraftHandler {
	return &AircraftHandler{aircraft: s}
}

func (h *AircraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req app.AircraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.aircraft.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusCreated)
}

func (h *AircraftHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.aircraft.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *AircraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.aircraft.Get(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *AircraftHandler) Update(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req app.AircraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.aircraft.Update(r.Context(), code, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *AircraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.aircraft.Delete(r.Context(), code); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
