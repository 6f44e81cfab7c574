package api

import (
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
)

type EmployeesHandler struct {
	employees *app.EmployeeService
}

func NewEmployeesHandler(s *app.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: s}
}

func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req app.CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, e, http.StatusCreated)
}

func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.employees.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

// Summary lists id, name and role of every employee for any signed-in user.
func (h *EmployeesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	list, err := h.employees.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, e, http.StatusOK)
}

func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req app.UpdateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.employees.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, e, http.StatusOK)
}

func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.employees.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
