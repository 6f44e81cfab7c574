package api

import (
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
)

type StagesHandler struct {
	stages *app.StageService
}

func NewStagesHandler(s *app.StageService) *StagesHandler {
	return &StagesHandler{stages: s}
}

func (h *StagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req app.CreateStageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.stages.CreateStage(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s, http.StatusCreated)
}

func (h *StagesHandler) List(w http.ResponseWriter, r *http.Request) {
	code, err := optionalQueryID(r, "aircraft")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.stages.ListStages(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

// Update applies a full edit. Moving a Completed stage back to another
// status is answered with 403.
func (h *StagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req app.UpdateStageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.stages.UpdateStage(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s, http.StatusOK)
}

func (h *StagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.stages.DeleteStage(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
