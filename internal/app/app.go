// Package app wires the pure rules of internal/core to the repositories.
// Each service owns one invariant and runs its read-check-write sequence in a
// single store transaction.
package app

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/repository"
)

// Services groups every application service behind one constructor.
type Services struct {
	Aircraft  *AircraftService
	Parts     *PartService
	Stages    *StageService
	Tests     *TestService
	Reports   *ReportService
	Employees *EmployeeService
}

// NewServices builds every service over store. A nil logger falls back to
// slog.Default and a nil metrics value disables counting.
func NewServices(store repository.TxStore, logger *slog.Logger, m *Metrics) *Services {
	return &Services{
		Aircraft:  NewAircraftService(store, logger),
		Parts:     NewPartService(store, logger),
		Stages:    NewStageService(store, logger, m),
		Tests:     NewTestService(store, logger, m),
		Reports:   NewReportService(store, logger, m),
		Employees: NewEmployeeService(store, logger),
	}
}

// ParseID converts a path or query value to a positive identifier.
func ParseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ierr.NewError(fmt.Sprintf("invalid %s %q", name, raw)).
			WithHintf("%s must be a positive integer", name).
			WithReportableDetails(map[string]any{name: raw}).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}

func notFound(entity string, id int64) error {
	return ierr.NewError(fmt.Sprintf("%s %d not found", entity, id)).
		WithHintf("%s %d not found", entity, id).
		Mark(ierr.ErrNotFound)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
