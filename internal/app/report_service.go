package app

import (
	"context"
	"log/slog"

	corereport "github.com/garnizeh/aerocode/internal/core/report"
	"github.com/garnizeh/aerocode/internal/validator"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
)

type GenerateReportRequest struct {
	AircraftCode int64  `json:"aircraft_code" validate:"required,gt=0"`
	Author       string `json:"author" validate:"required"`
}

// ReportService gates and assembles compliance reports. It never writes.
type ReportService struct {
	store   repository.TxStore
	logger  *slog.Logger
	metrics *Metrics
	now     clock
}

func NewReportService(store repository.TxStore, logger *slog.Logger, m *Metrics) *ReportService {
	return &ReportService{store: store, logger: orDefault(logger), metrics: m, now: utcNow}
}

// Eligibility evaluates the report gate for an aircraft.
func (s *ReportService) Eligibility(ctx context.Context, aircraftCode int64) (corereport.Verdict, error) {
	var v corereport.Verdict
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		var err error
		v, err = evaluate(ctx, st, aircraftCode)
		return err
	})
	return v, err
}

func evaluate(ctx context.Context, st repository.Store, aircraftCode int64) (corereport.Verdict, error) {
	stages, err := st.ListStages(ctx, &aircraftCode)
	if err != nil {
		return corereport.Verdict{}, err
	}
	tests, err := st.ListTests(ctx, aircraftCode)
	if err != nil {
		return corereport.Verdict{}, err
	}
	return corereport.Evaluate(stages, tests), nil
}

// GenerateReport returns the full report of an eligible aircraft. The gate
// and the aggregate are read in the same transaction.
func (s *ReportService) GenerateReport(ctx context.Context, req GenerateReportRequest) (*models.Report, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	start := s.now()

	var agg models.AircraftAggregate
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		code := req.AircraftCode
		stages, err := st.ListStages(ctx, &code)
		if err != nil {
			return err
		}
		tests, err := st.ListTests(ctx, code)
		if err != nil {
			return err
		}

		if v := corereport.Evaluate(stages, tests); !v.Eligible {
			s.logger.Warn("report denied", slog.Int64("aircraft_code", code), slog.String("reason", v.Reason))
			s.metrics.denied("generate_report")
			s.metrics.report("denied")
			return v.Error()
		}

		a, err := st.GetAircraft(ctx, code)
		if err != nil {
			return err
		}
		if a == nil {
			return notFound("aircraft", code)
		}
		parts, err := st.ListParts(ctx, &code)
		if err != nil {
			return err
		}

		agg = corereport.Aggregate(*a, parts, stages, tests)
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	r := corereport.Build(agg, req.Author, now, now.Sub(start))
	if err := corereport.Validate(ctx, r); err != nil {
		s.logger.Error("report failed schema check", slog.Int64("aircraft_code", req.AircraftCode), slog.Any("err", err))
		return nil, err
	}

	s.metrics.report("issued")
	s.logger.Info("report generated", slog.Int64("aircraft_code", req.AircraftCode),
		slog.String("author", req.Author), slog.Int64("duration_ms", r.DurationMS))
	return &r, nil
}

// Export generates the report and renders it as the text document together
// with its download file name.
func (s *ReportService) Export(ctx context.Context, req GenerateReportRequest) (string, string, error) {
	r, err := s.GenerateReport(ctx, req)
	if err != nil {
		return "", "", err
	}
	return corereport.Filename(r.Aircraft.Aircraft), corereport.Render(*r), nil
}
