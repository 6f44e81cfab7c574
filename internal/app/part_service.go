package app

import (
	"context"
	"log/slog"

	"github.com/garnizeh/aerocode/internal/validator"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
)

// PartRequest carries the editable fields of a part. Status is advisory and
// only checked for enum membership.
type PartRequest struct {
	Name         string            `json:"name" validate:"required"`
	Origin       models.PartOrigin `json:"origin" validate:"required,oneof=Domestic Imported"`
	Supplier     string            `json:"supplier" validate:"required"`
	Status       models.PartStatus `json:"status" validate:"required,oneof=InProduction InTransit ReadyForUse"`
	AircraftCode int64             `json:"aircraft_code" validate:"required,gt=0"`
}

type PartService struct {
	store  repository.TxStore
	logger *slog.Logger
}

func NewPartService(store repository.TxStore, logger *slog.Logger) *PartService {
	return &PartService{store: store, logger: orDefault(logger)}
}

func (s *PartService) Create(ctx context.Context, req PartRequest) (*models.Part, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	p := &models.Part{Name: req.Name, Origin: req.Origin, Supplier: req.Supplier, Status: req.Status, AircraftCode: req.AircraftCode}
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := requireAircraft(ctx, st, req.AircraftCode); err != nil {
			return err
		}
		id, err := st.CreatePart(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartService) Get(ctx context.Context, id int64) (*models.Part, error) {
	p, err := s.store.GetPart(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("part", id)
	}
	return p, nil
}

// List returns every part, or only those of one aircraft when aircraftCode is set.
func (s *PartService) List(ctx context.Context, aircraftCode *int64) ([]models.Part, error) {
	parts, err := s.store.ListParts(ctx, aircraftCode)
	if err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []models.Part{}
	}
	return parts, nil
}

func (s *PartService) Update(ctx context.Context, id int64, req PartRequest) (*models.Part, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	p := &models.Part{ID: id, Name: req.Name, Origin: req.Origin, Supplier: req.Supplier, Status: req.Status, AircraftCode: req.AircraftCode}
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := requireAircraft(ctx, st, req.AircraftCode); err != nil {
			return err
		}
		return st.UpdatePart(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PartService) Delete(ctx context.Context, id int64) error {
	return s.store.DeletePart(ctx, id)
}

func requireAircraft(ctx context.Context, st repository.Store, code int64) error {
	a, err := st.GetAircraft(ctx, code)
	if err != nil {
		return err
	}
	if a == nil {
		return notFound("aircraft", code)
	}
	return nil
}
