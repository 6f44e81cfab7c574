package api

import (
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
)

type PartsHandler struct {
	parts *app.PartService
}

func NewPartsHandler(s *app.PartService) *PartsHandler {
	return &PartsHandler{parts: s}
}

func (h *PartsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req app.PartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.parts.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusCreated)
}

// List accepts an optional ?aircraft=<code> filter.
func (h *PartsHandler) List(w http.ResponseWriter, r *http.Request) {
	code, err := optionalQueryID(r, "aircraft")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.parts.List(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *PartsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.parts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *PartsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req app.PartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.parts.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *PartsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.parts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
