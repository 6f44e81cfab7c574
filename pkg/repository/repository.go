package repository

import (
	"context"
	"time"

	"github.com/garnizeh/aerocode/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Point lookups return (nil, nil) when the row does not exist. Update and
// delete methods report a missing row with an error marked ErrNotFound.

type AircraftRepo interface {
	CreateAircraft(ctx context.Context, a *models.Aircraft) error
	GetAircraft(ctx context.Context, code int64) (*models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]models.Aircraft, error)
	UpdateAircraft(ctx context.Context, a *models.Aircraft) error
	DeleteAircraft(ctx context.Context, code int64) error
	CountDependents(ctx context.Context, code int64) (DependentCounts, error)
}

// DependentCounts reports how many rows reference an aircraft.
type DependentCounts struct {
	Parts  int `json:"parts"`
	Stages int `json:"stages"`
	Tests  int `json:"tests"`
}

func (d DependentCounts) Any() bool {
	return d.Parts+d.Stages+d.Tests > 0
}

type PartRepo interface {
	CreatePart(ctx context.Context, p *models.Part) (int64, error)
	GetPart(ctx context.Context, id int64) (*models.Part, error)
	ListParts(ctx context.Context, aircraftCode *int64) ([]models.Part, error)
	UpdatePart(ctx context.Context, p *models.Part) error
	DeletePart(ctx context.Context, id int64) error
}

type StageRepo interface {
	CreateStage(ctx context.Context, s *models.Stage) (int64, error)
	GetStage(ctx context.Context, id int64) (*models.Stage, error)
	// ListStages returns stages ordered by id ascending; a nil aircraftCode
	// lists every stage.
	ListStages(ctx context.Context, aircraftCode *int64) ([]models.Stage, error)
	// UpdateStage writes every column. It fails with ErrConflict when the
	// stored row is Completed and s.Status is not.
	UpdateStage(ctx context.Context, s *models.Stage) error
	DeleteStage(ctx context.Context, id int64) error
	// ReplaceAssignments deletes every assignment of the stage and inserts
	// employeeIDs in order.
	ReplaceAssignments(ctx context.Context, stageID int64, employeeIDs []int64) error
}

type TestRepo interface {
	CreateTest(ctx context.Context, t *models.TestRecord) (int64, error)
	// CurrentTest returns the latest record for the pair, or nil.
	CurrentTest(ctx context.Context, aircraftCode int64, typ models.TestType) (*models.TestRecord, error)
	// OverwriteRejected replaces result and timestamp of a Rejected record.
	// It fails with ErrConflict when the stored result is no longer Rejected.
	OverwriteRejected(ctx context.Context, id int64, result models.TestResult, at time.Time) error
	// ListTests returns the full history ordered by timestamp descending.
	ListTests(ctx context.Context, aircraftCode int64) ([]models.TestRecord, error)
}

type EmployeeRepo interface {
	CreateEmployee(ctx context.Context, e *models.Employee) (int64, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	GetEmployeeByLogin(ctx context.Context, login string) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, e *models.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	CountEmployees(ctx context.Context) (int64, error)
	CountAssignments(ctx context.Context, employeeID int64) (int64, error)
	// MissingEmployees returns the ids in ids that have no employee row.
	MissingEmployees(ctx context.Context, ids []int64) ([]int64, error)
}

// Store groups every repository so a transaction can hand out one value.
type Store interface {
	AircraftRepo
	PartRepo
	StageRepo
	TestRepo
	EmployeeRepo
}

// TxRunner runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// TxStore is a Store that can also open transactions.
type TxStore interface {
	Store
	TxRunner
}
