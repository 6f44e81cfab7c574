package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

type AircraftCategory string

const (
	CategoryCommercial AircraftCategory = "Commercial"
	CategoryMilitary   AircraftCategory = "Military"
)

type PartOrigin string

const (
	OriginDomestic PartOrigin = "Domestic"
	OriginImported PartOrigin = "Imported"
)

type PartStatus string

const (
	PartInProduction PartStatus = "InProduction"
	PartInTransit    PartStatus = "InTransit"
	PartReadyForUse  PartStatus = "ReadyForUse"
)

type StageStatus string

const (
	StagePending    StageStatus = "Pending"
	StageInProgress StageStatus = "InProgress"
	StageCompleted  StageStatus = "Completed"
)

type TestType string

const (
	TestElectrical  TestType = "Electrical"
	TestHydraulic   TestType = "Hydraulic"
	TestAerodynamic TestType = "Aerodynamic"
)

// TestTypes lists every test type in display order.
var TestTypes = []TestType{TestElectrical, TestHydraulic, TestAerodynamic}

type TestResult string

const (
	ResultApproved TestResult = "Approved"
	ResultRejected TestResult = "Rejected"
)

type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleManager       Role = "Manager"
	RoleOperator      Role = "Operator"
)

type Aircraft struct {
	Code     int64            `json:"code" db:"code"`
	Model    string           `json:"model" db:"model"`
	Category AircraftCategory `json:"category" db:"category"`
	Capacity int              `json:"capacity" db:"capacity"`
	Range    float64          `json:"range" db:"range_km"`
}

type Part struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Origin       PartOrigin `json:"origin" db:"origin"`
	Supplier     string     `json:"supplier" db:"supplier"`
	Status       PartStatus `json:"status" db:"status"`
	AircraftCode int64      `json:"aircraft_code" db:"aircraft_code"`
}

type Stage struct {
	ID           int64       `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	ExpectedDate time.Time   `json:"expected_date" db:"expected_date"`
	Status       StageStatus `json:"status" db:"status"`
	AircraftCode int64       `json:"aircraft_code" db:"aircraft_code"`
	Employees    []Assignee  `json:"employees"`
}

// Assignee is an employee as resolved through the stage assignment join.
type Assignee struct {
	EmployeeID int64  `json:"employee_id" db:"employee_id"`
	Name       string `json:"name" db:"name"`
	Role       Role   `json:"role" db:"role"`
}

type TestRecord struct {
	ID           int64      `json:"id" db:"id"`
	Type         TestType   `json:"type" db:"type"`
	Result       TestResult `json:"result" db:"result"`
	Timestamp    time.Time  `json:"timestamp" db:"recorded_at"`
	AircraftCode int64      `json:"aircraft_code" db:"aircraft_code"`
}

type Employee struct {
	ID           int64    `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Document     string   `json:"document" db:"document"`
	Role         Role     `json:"role" db:"role"`
	Login        string   `json:"login" db:"login"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Address      *Address `json:"address,omitempty"`
	Phone        *Phone   `json:"phone,omitempty"`
}

type Address struct {
	ID           int64  `json:"id" db:"id"`
	EmployeeID   int64  `json:"employee_id" db:"employee_id"`
	Street       string `json:"street" db:"street"`
	Number       int    `json:"number" db:"number"`
	Neighborhood string `json:"neighborhood" db:"neighborhood"`
	City         string `json:"city" db:"city"`
}

type Phone struct {
	ID         int64  `json:"id" db:"id"`
	EmployeeID int64  `json:"employee_id" db:"employee_id"`
	AreaCode   string `json:"area_code" db:"area_code"`
	Number     string `json:"number" db:"number"`
}

// AircraftAggregate is the full read-side view of one aircraft used by reports.
// The test history is published under the "tests" key; the earlier web
// client read it as "testes".
type AircraftAggregate struct {
	Aircraft
	Parts  []Part       `json:"parts"`
	Stages []Stage      `json:"stages"`
	Tests  []TestRecord `json:"tests"`
}

// Report is a point-in-time compliance report. It is never persisted.
type Report struct {
	Aircraft    AircraftAggregate `json:"aircraft"`
	Author      string            `json:"author"`
	GeneratedAt string            `json:"generated_at"`
	DurationMS  int64             `json:"duration_ms"`
}
