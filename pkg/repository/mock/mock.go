package mock

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/garnizeh/aerocode/pkg/repository"
)

var _ repository.TxStore = (*Store)(nil)

// Store is an in-memory repository.TxStore for service and handler tests.
// It enforces the same unique keys, references and guards as the SQLite
// repository. WithTx holds the store lock for the whole callback and only
// publishes the changes when fn succeeds.
type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
	fail map[string]error
}

type state struct {
	aircraft    map[int64]models.Aircraft
	parts       map[int64]models.Part
	stages      map[int64]models.Stage
	assignments map[int64][]int64
	tests       map[int64]models.TestRecord
	employees   map[int64]models.Employee
	nextID      int64
}

func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		st: &state{
			aircraft:    map[int64]models.Aircraft{},
			parts:       map[int64]models.Part{},
			stages:      map[int64]models.Stage{},
			assignments: map[int64][]int64{},
			tests:       map[int64]models.TestRecord{},
			employees:   map[int64]models.Employee{},
		},
		fail: map[string]error{},
	}
}

// FailOn makes every later call to method return err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

func (s *Store) lock(method string) (func(), error) {
	if !s.inTx {
		s.mu.Lock()
	}
	unlock := func() {
		if !s.inTx {
			s.mu.Unlock()
		}
	}
	if err := s.fail[method]; err != nil {
		unlock()
		return func() {}, err
	}
	return unlock, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail["WithTx"]; err != nil {
		return err
	}

	tx := &Store{mu: s.mu, st: s.st.clone(), inTx: true, fail: s.fail}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (st *state) clone() *state {
	c := &state{
		aircraft:    maps.Clone(st.aircraft),
		parts:       maps.Clone(st.parts),
		stages:      maps.Clone(st.stages),
		assignments: make(map[int64][]int64, len(st.assignments)),
		tests:       maps.Clone(st.tests),
		employees:   maps.Clone(st.employees),
		nextID:      st.nextID,
	}
	for k, v := range st.assignments {
		c.assignments[k] = slices.Clone(v)
	}
	return c
}

func (st *state) id() int64 {
	st.nextID++
	return st.nextID
}

func notFound(entity string, id int64) error {
	return ierr.NewError(fmt.Sprintf("%s %d not found", entity, id)).
		WithHintf("%s %d not found", entity, id).
		Mark(ierr.ErrNotFound)
}

func duplicate(what string) error {
	return ierr.NewError("duplicate " + what).
		WithHint("a record with the same unique key already exists").
		Mark(ierr.ErrAlreadyExists)
}

func (st *state) requireAircraft(code int64) error {
	if _, ok := st.aircraft[code]; !ok {
		return ierr.NewError(fmt.Sprintf("aircraft %d does not exist", code)).
			WithHint("the record is referenced by, or references, a missing record").
			Mark(ierr.ErrConflict)
	}
	return nil
}

// aircraft

func (s *Store) CreateAircraft(ctx context.Context, a *models.Aircraft) error {
	unlock, err := s.lock("CreateAircraft")
	defer unlock()
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("aircraft is nil")
	}
	if _, ok := s.st.aircraft[a.Code]; ok {
		return duplicate("aircraft code")
	}
	s.st.aircraft[a.Code] = *a
	return nil
}

func (s *Store) GetAircraft(ctx context.Context, code int64) (*models.Aircraft, error) {
	unlock, err := s.lock("GetAircraft")
	defer unlock()
	if err != nil {
		return nil, err
	}
	a, ok := s.st.aircraft[code]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	unlock, err := s.lock("ListAircraft")
	defer unlock()
	if err != nil {
		return nil, err
	}
	out := slices.Collect(maps.Values(s.st.aircraft))
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) UpdateAircraft(ctx context.Context, a *models.Aircraft) error {
	unlock, err := s.lock("UpdateAircraft")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := s.st.aircraft[a.Code]; !ok {
		return notFound("aircraft", a.Code)
	}
	s.st.aircraft[a.Code] = *a
	return nil
}

func (s *Store) DeleteAircraft(ctx context.Context, code int64) error {
	unlock, err := s.lock("DeleteAircraft")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := s.st.aircraft[code]; !ok {
		return notFound("aircraft", code)
	}
	if s.st.dependents(code).Any() {
		return ierr.NewError(fmt.Sprintf("aircraft %d is referenced", code)).
			WithHint("the record is referenced by, or references, a missing record").
			Mark(ierr.ErrConflict)
	}
	delete(s.st.aircraft, code)
	return nil
}

func (s *Store) CountDependents(ctx context.Context, code int64) (repository.DependentCounts, error) {
	unlock, err := s.lock("CountDependents")
	defer unlock()
	if err != nil {
		return repository.DependentCounts{}, err
	}
	return s.st.dependents(code), nil
}

func (st *state) dependents(code int64) repository.DependentCounts {
	var d repository.DependentCounts
	for _, p := range st.parts {
		if p.AircraftCode == code {
			d.Parts++
		}
	}
	for _, sg := range st.stages {
		if sg.AircraftCode == code {
			d.Stages++
		}
	}
	for _, t := range st.tests {
		if t.AircraftCode == code {
			d.Tests++
		}
	}
	return d
}

// parts

func (s *Store) CreatePart(ctx context.Context, p *models.Part) (int64, error) {
	unlock, err := s.lock("CreatePart")
	defer unlock()
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("part is nil")
	}
	if err := s.st.requireAircraft(p.AircraftCode); err != nil {
		return 0, err
	}
	c := *p
	c.ID = s.st.id()
	s.st.parts[c.ID] = c
	return c.ID, nil
}

func (s *Store) GetPart(ctx context.Context, id int64) (*models.Part, error) {
	unlock, err := s.lock("GetPart")
	defer unlock()
	if err != nil {
		return nil, err
	}
	p, ok := s.st.parts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) ListParts(ctx context.Context, aircraftCode *int64) ([]models.Part, error) {
	unlock, err := s.lock("ListParts")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []models.Part
	for _, p := range s.st.parts {
		if aircraftCode == nil || p.AircraftCode == *aircraftCode {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdatePart(ctx context.Context, p *models.Part) error {
	unlock, err := s.lock("UpdatePart")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := s.st.parts[p.ID]; !ok {
		return notFound("part", p.ID)
	}
	if err := s.st.requireAircraft(p.AircraftCode); err != nil {
		return err
	}
	s.st.parts[p.ID] = *p
	return nil
}

func (s *Store) DeletePart(ctx context.Context, id int64) error {
	unlock, err := s.lock("DeletePart")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := s.st.parts[id]; !ok {
		return notFound("part", id)
	}
	delete(s.st.parts, id)
	return nil
}

// stages

func (s *Store) CreateStage(ctx context.Context, sg *models.Stage) (int64, error) {
	unlock, err := s.lock("CreateStage")
	defer unlock()
	if err != nil {
		return 0, err
	}
	if sg == nil {
		return 0, fmt.Errorf("stage is nil")
	}
	if err := s.st.requireAircraft(sg.AircraftCode); err != nil {
		return 0, err
	}
	c := *sg
	c.ID = s.st.id()
	c.Employees = nil
	s.st.stages[c.ID] = c
	return c.ID, nil
}

func (st *state) resolve(sg models.Stage) models.Stage {
	sg.Employees = []models.Assignee{}
	for _, eid := range st.assignments[sg.ID] {
		if e, ok := st.employees[eid]; ok {
			sg.Employees = append(sg.Employees, models.Assignee{EmployeeID: e.ID, Name: e.Name, Role: e.Role})
		}
	}
	return sg
}

func (s *Store) GetStage(ctx context.Context, id int64) (*models.Stage, error) {
	unlock, err := s.lock("GetStage")
	defer unlock()
	if err != nil {
		return nil, err
	}
	sg, ok := s.st.stages[id]
	if !ok {
		return nil, nil
	}
	sg = s.st.resolve(sg)
	return &sg, nil
}

func (s *Store) ListStages(ctx context.Context, aircraftCode *int64) ([]models.Stage, error) {
	unlock, err := s.lock("ListStages")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []models.Stage
	for _, sg := range s.st.stages {
		if aircraftCode == nil || sg.AircraftCode == *aircraftCode {
			out = append(out, s.st.resolve(sg))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateStage(ctx context.Context, sg *models.Stage) error {
	unlock, err := s.lock("UpdateStage")
	defer unlock()
	if err != nil {
		return err
	}
	cur, ok := s.st.stages[sg.ID]
	if !ok {
		return notFound("stage", sg.ID)
	}
	if cur.Status == models.StageCompleted && sg.Status != models.StageCompleted {
		return ierr.NewError(fmt.Sprintf("stage %d is completed", sg.ID)).
			WithHint("stage already completed, cannot reopen").
			Mark(ierr.ErrConflict)
	}
	if err := s.st.requireAircraft(sg.AircraftCode); err != nil {
		return err
	}
	c := *sg
	c.Employees = nil
	s.st.stages[sg.ID] = c
	return nil
}

func (s *Store) DeleteStage(ctx context.Context, id int64) error {
	unlock, err := s.lock("DeleteStage")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := s.st.stages[id]; !ok {
		return notFound("stage", id)
	}
	delete(s.st.stages, id)
	delete(s.st.assignments, id)
	return nil
}

func (s *Store) ReplaceAssignments(ctx context.Context, stageID int64, employeeIDs []int64) error {
	unlock, err := s.lock("ReplaceAssignments")
	defer unlock()
	if err != nil {
		return err
	}
	for _, eid := range employeeIDs {
		if _, ok := s.st.employees[eid]; !ok {
			return ierr.NewError(fmt.Sprintf("employee %d does not exist", eid)).
				WithHint("the record is referenced by, or references, a missing record").
				Mark(ierr.ErrConflict)
		}
	}
	if len(employeeIDs) == 0 {
		delete(s.st.assignments, stageID)
		return nil
	}
	s.st.assignments[stageID] = slices.Clone(employeeIDs)
	return nil
}

// tests

func (s *Store) CreateTest(ctx context.Context, t *models.TestRecord) (int64, error) {
	unlock, err := s.lock("CreateTest")
	defer unlock()
	if err != nil {
		return 0, err
	}
	if t == nil {
		return 0, fmt.Errorf("test record is nil")
	}
	if err := s.st.requireAircraft(t.AircraftCode); err != nil {
		return 0, err
	}
	c := *t
	c.ID = s.st.id()
	c.Timestamp = c.Timestamp.UTC().Truncate(time.Microsecond)
	s.st.tests[c.ID] = c
	return c.ID, nil
}

func (st *state) history(code int64) []models.TestRecord {
	var out []models.TestRecord
	for _, t := range st.tests {
		if t.AircraftCode == code {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) CurrentTest(ctx context.Context, aircraftCode int64, typ models.TestType) (*models.TestRecord, error) {
	unlock, err := s.lock("CurrentTest")
	defer unlock()
	if err != nil {
		return nil, err
	}
	for _, t := range s.st.history(aircraftCode) {
		if t.Type == typ {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) OverwriteRejected(ctx context.Context, id int64, result models.TestResult, at time.Time) error {
	unlock, err := s.lock("OverwriteRejected")
	defer unlock()
	if err != nil {
		return err
	}
	t, ok := s.st.tests[id]
	if !ok || t.Result != models.ResultRejected {
		return ierr.NewError(fmt.Sprintf("test record %d is not rejected", id)).
			WithHint("test already approved, result is frozen").
			Mark(ierr.ErrConflict)
	}
	t.Result = result
	t.Timestamp = at.UTC().Truncate(time.Microsecond)
	s.st.tests[id] = t
	return nil
}

func (s *Store) ListTests(ctx context.Context, aircraftCode int64) ([]models.TestRecord, error) {
	unlock, err := s.lock("ListTests")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return s.st.history(aircraftCode), nil
}

// employees

func (st *state) uniqueEmployee(e *models.Employee) error {
	for _, o := range st.employees {
		if o.ID == e.ID {
			continue
		}
		if o.Document == e.Document {
			return duplicate("employee document")
		}
		if o.Login == e.Login {
			return duplicate("employee login")
		}
	}
	return nil
}

func cloneEmployee(e models.Employee) models.Employee {
	if e.Address != nil {
		a := *e.Address
		e.Address = &a
	}
	if e.Phone != nil {
		p := *e.Phone
		e.Phone = &p
	}
	return e
}

func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) (int64, error) {
	unlock, err := s.lock("CreateEmployee")
	defer unlock()
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, fmt.Errorf("employee is nil")
	}
	c := cloneEmployee(*e)
	c.ID = 0
	if err := s.st.uniqueEmployee(&c); err != nil {
		return 0, err
	}
	c.ID = s.st.id()
	if c.Address != nil {
		c.Address.ID, c.Address.EmployeeID = s.st.id(), c.ID
	}
	if c.Phone != nil {
		c.Phone.ID, c.Phone.EmployeeID = s.st.id(), c.ID
	}
	s.st.employees[c.ID] = c
	return c.ID, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	unlock, err := s.lock("GetEmployee")
	defer unlock()
	if err != nil {
		return nil, err
	}
	e, ok := s.st.employees[id]
	if !ok {
		return nil, nil
	}
	e = cloneEmployee(e)
	return &e, nil
}

func (s *Store) GetEmployeeByLogin(ctx context.Context, login string) (*models.Employee, error) {
	unlock, err := s.lock("GetEmployeeByLogin")
	defer unlock()
	if err != nil {
		return nil, err
	}
	for _, e := range s.st.employees {
		if e.Login == login {
			e = cloneEmployee(e)
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	unlock, err := s.lock("ListEmployees")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var out []models.Employee
	for _, e := range s.st.employees {
		e.Address, e.Phone = nil, nil
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	unlock, err := s.lock("UpdateEmployee")
	defer unlock()
	if err != nil {
		return err
	}
	cur, ok := s.st.employees[e.ID]
	if !ok {
		return notFound("employee", e.ID)
	}
	if err := s.st.uniqueEmployee(e); err != nil {
		return err
	}
	c := cloneEmployee(*e)
	// address and phone are upserted, never removed by an update
	if c.Address == nil {
		c.Address = cur.Address
	} else {
		c.Address.EmployeeID = c.ID
	}
	if c.Phone == nil {
		c.Phone = cur.Phone
	} else {
		c.Phone.EmployeeID = c.ID
	}
	s.st.employees[e.ID] = c
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	unlock, err := s.lock("DeleteEmployee")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := s.st.employees[id]; !ok {
		return notFound("employee", id)
	}
	if s.st.assignmentCount(id) > 0 {
		return ierr.NewError(fmt.Sprintf("employee %d is assigned", id)).
			WithHint("the record is referenced by, or references, a missing record").
			Mark(ierr.ErrConflict)
	}
	delete(s.st.employees, id)
	return nil
}

func (s *Store) CountEmployees(ctx context.Context) (int64, error) {
	unlock, err := s.lock("CountEmployees")
	defer unlock()
	if err != nil {
		return 0, err
	}
	return int64(len(s.st.employees)), nil
}

func (st *state) assignmentCount(employeeID int64) int64 {
	var n int64
	for _, ids := range st.assignments {
		if slices.Contains(ids, employeeID) {
			n++
		}
	}
	return n
}

func (s *Store) CountAssignments(ctx context.Context, employeeID int64) (int64, error) {
	unlock, err := s.lock("CountAssignments")
	defer unlock()
	if err != nil {
		return 0, err
	}
	return s.st.assignmentCount(employeeID), nil
}

func (s *Store) MissingEmployees(ctx context.Context, ids []int64) ([]int64, error) {
	unlock, err := s.lock("MissingEmployees")
	defer unlock()
	if err != nil {
		return nil, err
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := s.st.employees[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
