package app

import (
	"context"
	"log/slog"
	"time"

	corestage "github.com/garnizeh/aerocode/internal/core/stage"
	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/internal/validator"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
	"github.com/samber/lo"
)

type CreateStageRequest struct {
	Name         string    `json:"name" validate:"required"`
	ExpectedDate time.Time `json:"expected_date" validate:"required"`
	AircraftCode int64     `json:"aircraft_code" validate:"required,gt=0"`
	EmployeeIDs  []int64   `json:"employee_ids"`
}

// UpdateStageRequest rewrites every field of a stage. A nil EmployeeIDs keeps
// the current assignments; a non-nil one replaces them.
type UpdateStageRequest struct {
	Name         string             `json:"name" validate:"required"`
	ExpectedDate time.Time          `json:"expected_date" validate:"required"`
	Status       models.StageStatus `json:"status" validate:"required,oneof=Pending InProgress Completed"`
	AircraftCode int64              `json:"aircraft_code" validate:"required,gt=0"`
	EmployeeIDs  *[]int64           `json:"employee_ids,omitempty"`
}

// StageService enforces the stage state machine and its employee assignments.
type StageService struct {
	store   repository.TxStore
	logger  *slog.Logger
	metrics *Metrics
}

func NewStageService(store repository.TxStore, logger *slog.Logger, m *Metrics) *StageService {
	return &StageService{store: store, logger: orDefault(logger), metrics: m}
}

// CreateStage inserts a Pending stage and its assignments atomically.
func (s *StageService) CreateStage(ctx context.Context, req CreateStageRequest) (*models.Stage, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	var id int64
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := requireAircraft(ctx, st, req.AircraftCode); err != nil {
			return err
		}
		ids, err := resolveEmployees(ctx, st, req.EmployeeIDs)
		if err != nil {
			return err
		}

		id, err = st.CreateStage(ctx, &models.Stage{
			Name:         req.Name,
			ExpectedDate: req.ExpectedDate,
			Status:       models.StagePending,
			AircraftCode: req.AircraftCode,
		})
		if err != nil {
			return err
		}
		return st.ReplaceAssignments(ctx, id, ids)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stage created", slog.Int64("stage_id", id), slog.Int64("aircraft_code", req.AircraftCode))
	return s.reload(ctx, id)
}

// UpdateStage applies req to stage id. A Completed stage may not move to any
// other status; the check and the write share one transaction.
func (s *StageService) UpdateStage(ctx context.Context, id int64, req UpdateStageRequest) (*models.Stage, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		cur, err := st.GetStage(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound("stage", id)
		}

		guard := corestage.CanTransition(corestage.TransitionContext{StageID: id, From: cur.Status, To: req.Status})
		if !guard.Allowed {
			s.logger.Warn("stage update denied", slog.Int64("stage_id", id),
				slog.String("from", string(cur.Status)), slog.String("to", string(req.Status)),
				slog.String("reason", guard.Reason))
			s.metrics.denied("update_stage")
			return guard.Error()
		}

		if req.AircraftCode != cur.AircraftCode {
			if err := requireAircraft(ctx, st, req.AircraftCode); err != nil {
				return err
			}
		}

		var ids []int64
		if req.EmployeeIDs != nil {
			if ids, err = resolveEmployees(ctx, st, *req.EmployeeIDs); err != nil {
				return err
			}
		}

		if err := st.UpdateStage(ctx, &models.Stage{
			ID:           id,
			Name:         req.Name,
			ExpectedDate: req.ExpectedDate,
			Status:       req.Status,
			AircraftCode: req.AircraftCode,
		}); err != nil {
			return err
		}

		if req.EmployeeIDs != nil {
			return st.ReplaceAssignments(ctx, id, ids)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// DeleteStage removes the assignments of the stage and then the stage.
func (s *StageService) DeleteStage(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		return st.DeleteStage(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("stage deleted", slog.Int64("stage_id", id))
	return nil
}

// ListStages returns stages ordered by id with their assignees. A nil
// aircraftCode lists the stages of every aircraft.
func (s *StageService) ListStages(ctx context.Context, aircraftCode *int64) ([]models.Stage, error) {
	stages, err := s.store.ListStages(ctx, aircraftCode)
	if err != nil {
		return nil, err
	}
	if stages == nil {
		stages = []models.Stage{}
	}
	return stages, nil
}

func (s *StageService) reload(ctx context.Context, id int64) (*models.Stage, error) {
	stage, err := s.store.GetStage(ctx, id)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return nil, notFound("stage", id)
	}
	return stage, nil
}

// resolveEmployees drops duplicate ids, keeping first occurrence order, and
// fails when any id has no employee.
func resolveEmployees(ctx context.Context, st repository.Store, ids []int64) ([]int64, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	missing, err := st.MissingEmployees(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, ierr.NewError("unknown employees").
			WithHint("one or more employees do not exist").
			WithReportableDetails(map[string]any{"missing_employee_ids": missing}).
			Mark(ierr.ErrNotFound)
	}
	return ids, nil
}
