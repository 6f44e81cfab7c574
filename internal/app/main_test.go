package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
	"github.com/garnizeh/aerocode/pkg/repository/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// the concurrency tests start goroutines; none may outlive the package
	goleak.VerifyTestMain(m)
}

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	day     = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
)

func newServices(t *testing.T, store repository.TxStore) *Services {
	t.Helper()
	svc := NewServices(store, discard, NewMetrics(prometheus.NewRegistry()))
	svc.Employees.cost = bcrypt.MinCost
	return svc
}

func newMockServices(t *testing.T) (*Services, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	return newServices(t, store), store
}

func registerAircraft(t *testing.T, svc *Services, code int64) {
	t.Helper()
	_, err := svc.Aircraft.Register(context.Background(), AircraftRequest{
		Code: code, Model: "E195-E2", Category: models.CategoryCommercial, Capacity: 132, Range: 4815,
	})
	require.NoError(t, err)
}

func createEmployee(t *testing.T, svc *Services, name, login string, role models.Role) *models.Employee {
	t.Helper()
	e, err := svc.Employees.Create(context.Background(), CreateEmployeeRequest{
		Name: name, Document: "doc-" + login, Role: role, Login: login, Password: "secret",
		Address: &AddressInput{Street: "Main St", Number: 1, Neighborhood: "Center", City: "Sao Jose"},
		Phone:   &PhoneInput{AreaCode: "12", Number: "90000-0000"},
	})
	require.NoError(t, err)
	return e
}

func createStage(t *testing.T, svc *Services, code int64, name string, employees ...int64) *models.Stage {
	t.Helper()
	s, err := svc.Stages.CreateStage(context.Background(), CreateStageRequest{
		Name: name, ExpectedDate: day, AircraftCode: code, EmployeeIDs: employees,
	})
	require.NoError(t, err)
	return s
}

func setStatus(t *testing.T, svc *Services, s *models.Stage, status models.StageStatus) *models.Stage {
	t.Helper()
	out, err := svc.Stages.UpdateStage(context.Background(), s.ID, UpdateStageRequest{
		Name: s.Name, ExpectedDate: s.ExpectedDate, Status: status, AircraftCode: s.AircraftCode,
	})
	require.NoError(t, err)
	return out
}

func record(svc *Services, code int64, typ models.TestType, res models.TestResult) (*RecordTestResult, error) {
	return svc.Tests.RecordTest(context.Background(), RecordTestRequest{AircraftCode: code, Type: typ, Result: res})
}
