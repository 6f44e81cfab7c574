package app

import (
	"context"
	"log/slog"
	"time"

	coretest "github.com/garnizeh/aerocode/internal/core/testrecord"
	"github.com/garnizeh/aerocode/internal/validator"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
)

type RecordTestRequest struct {
	AircraftCode int64             `json:"aircraft_code" validate:"required,gt=0"`
	Type         models.TestType   `json:"type" validate:"required,oneof=Electrical Hydraulic Aerodynamic"`
	Result       models.TestResult `json:"result" validate:"required,oneof=Approved Rejected"`
	// Timestamp is only honoured when the pair has no record yet.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// RecordTestResult reports whether a new row was written or a Rejected one
// overwritten.
type RecordTestResult struct {
	Record  models.TestRecord
	Created bool
}

// TestService is the ledger of test results per (aircraft, test type).
type TestService struct {
	store   repository.TxStore
	logger  *slog.Logger
	metrics *Metrics
	now     clock
}

func NewTestService(store repository.TxStore, logger *slog.Logger, m *Metrics) *TestService {
	return &TestService{store: store, logger: orDefault(logger), metrics: m, now: utcNow}
}

// RecordTest appends, overwrites or refuses a result depending on the current
// record of the pair. Lookup and write share one transaction.
func (s *TestService) RecordTest(ctx context.Context, req RecordTestRequest) (*RecordTestResult, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	var out RecordTestResult
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := requireAircraft(ctx, st, req.AircraftCode); err != nil {
			return err
		}

		cur, err := st.CurrentTest(ctx, req.AircraftCode, req.Type)
		if err != nil {
			return err
		}

		decision := coretest.Decide(coretest.RecordContext{AircraftCode: req.AircraftCode, Type: req.Type, Current: cur})
		switch decision.Action {
		case coretest.ActionCreate:
			at := s.now()
			if req.Timestamp != nil && !req.Timestamp.IsZero() {
				at = req.Timestamp.UTC()
			}
			rec := models.TestRecord{Type: req.Type, Result: req.Result, Timestamp: at, AircraftCode: req.AircraftCode}
			id, err := st.CreateTest(ctx, &rec)
			if err != nil {
				return err
			}
			rec.ID = id
			out = RecordTestResult{Record: rec, Created: true}

		case coretest.ActionOverwrite:
			at := s.now()
			if err := st.OverwriteRejected(ctx, cur.ID, req.Result, at); err != nil {
				return err
			}
			rec := *cur
			rec.Result, rec.Timestamp = req.Result, at
			out = RecordTestResult{Record: rec}

		default:
			s.logger.Warn("test result denied", slog.Int64("aircraft_code", req.AircraftCode),
				slog.String("type", string(req.Type)), slog.String("reason", decision.Reason))
			s.metrics.denied("record_test")
			return decision.Error()
		}

		s.metrics.testResult(string(req.Type), string(req.Result), decision.Action.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("test result recorded", slog.Int64("aircraft_code", req.AircraftCode),
		slog.String("type", string(req.Type)), slog.String("result", string(req.Result)),
		slog.Bool("created", out.Created))
	return &out, nil
}

// ListTestHistory returns every record of the aircraft, newest first.
func (s *TestService) ListTestHistory(ctx context.Context, aircraftCode int64) ([]models.TestRecord, error) {
	tests, err := s.store.ListTests(ctx, aircraftCode)
	if err != nil {
		return nil, err
	}
	if tests == nil {
		tests = []models.TestRecord{}
	}
	return tests, nil
}
