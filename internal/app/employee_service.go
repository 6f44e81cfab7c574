package app

import (
	"context"
	"fmt"
	"log/slog"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/internal/validator"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

type AddressInput struct {
	Street       string `json:"street" validate:"required"`
	Number       int    `json:"number" validate:"gt=0"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
}

type PhoneInput struct {
	AreaCode string `json:"area_code" validate:"required"`
	Number   string `json:"number" validate:"required"`
}

// CreateEmployeeRequest registers an employee with its address and phone.
type CreateEmployeeRequest struct {
	Name     string        `json:"name" validate:"required"`
	Document string        `json:"document" validate:"required"`
	Role     models.Role   `json:"role" validate:"required,oneof=Administrator Manager Operator"`
	Login    string        `json:"login" validate:"required"`
	Password string        `json:"password" validate:"required,min=4"`
	Address  *AddressInput `json:"address" validate:"required"`
	Phone    *PhoneInput   `json:"phone" validate:"required"`
}

// UpdateEmployeeRequest edits an employee. An empty Password keeps the
// current hash; nil Address or Phone keep the stored ones.
type UpdateEmployeeRequest struct {
	Name     string        `json:"name" validate:"required"`
	Document string        `json:"document" validate:"required"`
	Role     models.Role   `json:"role" validate:"required,oneof=Administrator Manager Operator"`
	Login    string        `json:"login" validate:"required"`
	Password string        `json:"password" validate:"omitempty,min=4"`
	Address  *AddressInput `json:"address,omitempty"`
	Phone    *PhoneInput   `json:"phone,omitempty"`
}

// EmployeeSummary is the minimal employee view used by assignment pickers.
type EmployeeSummary struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// BootstrapAdmin describes the administrator created on an empty database.
type BootstrapAdmin struct {
	Name     string
	Document string
	Login    string
	Password string
}

type EmployeeService struct {
	store  repository.TxStore
	logger *slog.Logger
	cost   int
}

func NewEmployeeService(store repository.TxStore, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{store: store, logger: orDefault(logger), cost: bcrypt.DefaultCost}
}

func (s *EmployeeService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", ierr.WithError(err).WithMessage("hash password").Mark(ierr.ErrSystem)
	}
	return string(h), nil
}

func address(in *AddressInput) *models.Address {
	if in == nil {
		return nil
	}
	return &models.Address{Street: in.Street, Number: in.Number, Neighborhood: in.Neighborhood, City: in.City}
}

func phone(in *PhoneInput) *models.Phone {
	if in == nil {
		return nil
	}
	return &models.Phone{AreaCode: in.AreaCode, Number: in.Number}
}

// Create stores the employee, its address and its phone in one transaction.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	e := &models.Employee{
		Name:         req.Name,
		Document:     req.Document,
		Role:         req.Role,
		Login:        req.Login,
		PasswordHash: hash,
		Address:      address(req.Address),
		Phone:        phone(req.Phone),
	}

	var id int64
	err = s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		var err error
		id, err = st.CreateEmployee(ctx, e)
		return err
	})
	if err != nil {
		if ierr.IsAlreadyExists(err) {
			return nil, ierr.WithError(err).
				WithHint("an employee with this document or login already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, err
	}

	s.logger.Info("employee created", slog.Int64("employee_id", id), slog.String("role", string(req.Role)))
	return s.Get(ctx, id)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("employee", id)
	}
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	list, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Employee{}
	}
	return list, nil
}

// Summary lists id, name and role of every employee.
func (s *EmployeeService) Summary(ctx context.Context) ([]EmployeeSummary, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(e models.Employee, _ int) EmployeeSummary {
		return EmployeeSummary{ID: e.ID, Name: e.Name, Role: e.Role}
	}), nil
}

func (s *EmployeeService) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	var newHash string
	if req.Password != "" {
		h, err := s.hash(req.Password)
		if err != nil {
			return nil, err
		}
		newHash = h
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		cur, err := st.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound("employee", id)
		}

		e := &models.Employee{
			ID:           id,
			Name:         req.Name,
			Document:     req.Document,
			Role:         req.Role,
			Login:        req.Login,
			PasswordHash: lo.Ternary(newHash != "", newHash, cur.PasswordHash),
			Address:      address(req.Address),
			Phone:        phone(req.Phone),
		}
		return st.UpdateEmployee(ctx, e)
	})
	if err != nil {
		if ierr.IsAlreadyExists(err) {
			return nil, ierr.WithError(err).
				WithHint("an employee with this document or login already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes an employee that is not assigned to any stage, together
// with its address and phone.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		cur, err := st.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound("employee", id)
		}

		n, err := st.CountAssignments(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Warn("employee delete refused", slog.Int64("employee_id", id), slog.Int64("assignments", n))
			return ierr.NewError(fmt.Sprintf("employee %d is assigned to %d stages", id, n)).
				WithHintf("employee is assigned to %d production stages", n).
				Mark(ierr.ErrConflict)
		}

		return st.DeleteEmployee(ctx, id)
	})
}

// Authenticate checks a login and password pair. Unknown logins and wrong
// passwords fail the same way.
func (s *EmployeeService) Authenticate(ctx context.Context, login, password string) (*models.Employee, error) {
	if login == "" || password == "" {
		return nil, ierr.NewError("missing credentials").
			WithHint("login and password are required").
			Mark(ierr.ErrValidation)
	}

	e, err := s.store.GetEmployeeByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if e == nil || bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) != nil {
		return nil, ierr.NewError("invalid credentials").
			WithHint("invalid login or password").
			Mark(ierr.ErrUnauthorized)
	}
	return e, nil
}

// EnsureBootstrapAdmin creates an administrator when no employee exists yet.
// It reports whether one was created.
func (s *EmployeeService) EnsureBootstrapAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	if admin.Login == "" || admin.Password == "" {
		return false, nil
	}

	hash, err := s.hash(admin.Password)
	if err != nil {
		return false, err
	}

	created := false
	err = s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		n, err := st.CountEmployees(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		_, err = st.CreateEmployee(ctx, &models.Employee{
			Name:         lo.CoalesceOrEmpty(admin.Name, "Administrator"),
			Document:     lo.CoalesceOrEmpty(admin.Document, admin.Login),
			Role:         models.RoleAdministrator,
			Login:        admin.Login,
			PasswordHash: hash,
		})
		created = err == nil
		return err
	})
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Info("bootstrap administrator created", slog.String("login", admin.Login))
	}
	return created, nil
}
