package app

import (
	"context"
	"fmt"
	"log/slog"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/internal/validator"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
)

// AircraftRequest carries the editable fields of an aircraft.
type AircraftRequest struct {
	Code     int64                   `json:"code" validate:"required,gt=0"`
	Model    string                  `json:"model" validate:"required"`
	Category models.AircraftCategory `json:"category" validate:"required,oneof=Commercial Military"`
	Capacity int                     `json:"capacity" validate:"gt=0"`
	Range    float64                 `json:"range" validate:"gt=0"`
}

func (r AircraftRequest) toModel() *models.Aircraft {
	return &models.Aircraft{Code: r.Code, Model: r.Model, Category: r.Category, Capacity: r.Capacity, Range: r.Range}
}

type AircraftService struct {
	store  repository.TxStore
	logger *slog.Logger
}

func NewAircraftService(store repository.TxStore, logger *slog.Logger) *AircraftService {
	return &AircraftService{store: store, logger: orDefault(logger)}
}

// Register creates an aircraft under its client-assigned code.
func (s *AircraftService) Register(ctx context.Context, req AircraftRequest) (*models.Aircraft, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	a := req.toModel()
	if err := s.store.CreateAircraft(ctx, a); err != nil {
		if ierr.IsAlreadyExists(err) {
			return nil, ierr.WithError(err).
				WithHintf("aircraft %d already exists", req.Code).
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, err
	}

	s.logger.Info("aircraft registered", slog.Int64("code", a.Code), slog.String("model", a.Model))
	return a, nil
}

func (s *AircraftService) Get(ctx context.Context, code int64) (*models.Aircraft, error) {
	a, err := s.store.GetAircraft(ctx, code)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("aircraft", code)
	}
	return a, nil
}

func (s *AircraftService) List(ctx context.Context) ([]models.Aircraft, error) {
	list, err := s.store.ListAircraft(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Aircraft{}
	}
	return list, nil
}

// Update rewrites the aircraft identified by code. The code itself is immutable.
func (s *AircraftService) Update(ctx context.Context, code int64, req AircraftRequest) (*models.Aircraft, error) {
	req.Code = code
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	a := req.toModel()
	if err := s.store.UpdateAircraft(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an aircraft that no part, stage or test references.
func (s *AircraftService) Delete(ctx context.Context, code int64) error {
	return s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		a, err := st.GetAircraft(ctx, code)
		if err != nil {
			return err
		}
		if a == nil {
			return notFound("aircraft", code)
		}

		deps, err := st.CountDependents(ctx, code)
		if err != nil {
			return err
		}
		if deps.Any() {
			s.logger.Warn("aircraft delete refused", slog.Int64("code", code),
				slog.Int("parts", deps.Parts), slog.Int("stages", deps.Stages), slog.Int("tests", deps.Tests))
			return ierr.NewError(fmt.Sprintf("aircraft %d has dependents", code)).
				WithHint("aircraft has parts, stages or tests and cannot be deleted").
				WithReportableDetails(map[string]any{"parts": deps.Parts, "stages": deps.Stages, "tests": deps.Tests}).
				Mark(ierr.ErrConflict)
		}

		return st.DeleteAircraft(ctx, code)
	})
}
