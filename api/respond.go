package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/garnizeh/aerocode/internal/app"
	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/gorilla/mux"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps err to its status code. The message is the first hint on
// the chain and detail carries the reportable details, if any.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := ierr.HTTPStatusFromErr(err)
	resp := errorResponse{Error: ierr.DisplayMessage(err, http.StatusText(status))}
	if details := ierr.Details(err); len(details) > 0 {
		resp.Detail = details
	}

	attrs := []any{
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Any("err", err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Debug("request rejected", attrs...)
	}

	writeJSON(w, resp, status)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ierr.WithError(err).
			WithHint("invalid request body").
			WithReportableDetails(map[string]any{"body": err.Error()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return app.ParseID(name, mux.Vars(r)[name])
}

// optionalQueryID parses an optional positive id from the query string.
func optionalQueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := app.ParseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
