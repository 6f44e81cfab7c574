package api_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/garnizeh/aerocode/pkg/models"
)

// TestComplianceFlow drives one aircraft from registration to an exported
// report through the HTTP surface.
func TestComplianceFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(adminLogin, adminPassword)

	var a models.Aircraft
	srv.expect(srv.do(http.MethodPost, "/v1/aircraft", token, aircraftBody(100)), http.StatusCreated, &a)
	if a.Code != 100 {
		t.Fatalf("unexpected aircraft: %+v", a)
	}

	var dup apiError
	srv.expect(srv.do(http.MethodPost, "/v1/aircraft", token, aircraftBody(100)), http.StatusConflict, &dup)
	if dup.Error != "aircraft 100 already exists" {
		t.Fatalf("unexpected duplicate message: %q", dup.Error)
	}

	var part models.Part
	srv.expect(srv.do(http.MethodPost, "/v1/parts", token, map[string]any{
		"name": "Landing gear", "origin": "Imported", "supplier": "Safran", "status": "ReadyForUse", "aircraft_code": 100,
	}), http.StatusCreated, &part)

	var emp models.Employee
	srv.expect(srv.do(http.MethodPost, "/v1/employees", token, employeeBody("Ana Souza", "ana", models.RoleOperator)), http.StatusCreated, &emp)

	var stage models.Stage
	srv.expect(srv.do(http.MethodPost, "/v1/stages", token, map[string]any{
		"name": "Wing assembly", "expected_date": "2026-03-01T00:00:00Z", "aircraft_code": 100, "employee_ids": []int64{emp.ID},
	}), http.StatusCreated, &stage)
	if stage.Status != models.StagePending || len(stage.Employees) != 1 {
		t.Fatalf("unexpected stage: %+v", stage)
	}

	var verdict struct {
		Eligible bool   `json:"eligible"`
		Reason   string `json:"reason"`
	}
	srv.expect(srv.do(http.MethodGet, "/v1/aircraft/100/eligibility", token, nil), http.StatusOK, &verdict)
	if verdict.Eligible || verdict.Reason != "pending stages: Wing assembly" {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}

	var denied apiError
	srv.expect(srv.do(http.MethodPost, "/v1/reports", token, map[string]any{"aircraft_code": 100, "author": "Ana"}), http.StatusForbidden, &denied)
	if denied.Error != "pending stages: Wing assembly" {
		t.Fatalf("unexpected denial: %q", denied.Error)
	}

	stagePath := fmt.Sprintf("/v1/stages/%d", stage.ID)
	update := map[string]any{"name": "Wing assembly", "expected_date": "2026-03-01T00:00:00Z", "status": "Completed", "aircraft_code": 100}
	srv.expect(srv.do(http.MethodPut, stagePath, token, update), http.StatusOK, &stage)
	if stage.Status != models.StageCompleted || len(stage.Employees) != 1 {
		t.Fatalf("assignments must survive an update without employee_ids: %+v", stage)
	}

	update["status"] = "InProgress"
	var reopen apiError
	srv.expect(srv.do(http.MethodPut, stagePath, token, update), http.StatusForbidden, &reopen)
	if reopen.Error != "stage already completed, cannot reopen" {
		t.Fatalf("unexpected reopen message: %q", reopen.Error)
	}

	var rec models.TestRecord
	srv.expect(srv.do(http.MethodPost, "/v1/tests", token, map[string]any{"aircraft_code": 100, "type": "Electrical", "result": "Rejected"}), http.StatusCreated, &rec)
	srv.expect(srv.do(http.MethodPost, "/v1/tests", token, map[string]any{"aircraft_code": 100, "type": "Electrical", "result": "Approved"}), http.StatusOK, &rec)
	if rec.Result != models.ResultApproved {
		t.Fatalf("expected overwrite to Approved, got %+v", rec)
	}
	var frozen apiError
	srv.expect(srv.do(http.MethodPost, "/v1/tests", token, map[string]any{"aircraft_code": 100, "type": "Electrical", "result": "Rejected"}), http.StatusForbidden, &frozen)
	if !strings.Contains(frozen.Error, "already approved") {
		t.Fatalf("unexpected frozen message: %q", frozen.Error)
	}

	var history []models.TestRecord
	srv.expect(srv.do(http.MethodGet, "/v1/aircraft/100/tests", token, nil), http.StatusOK, &history)
	if len(history) != 1 || history[0].Result != models.ResultApproved {
		t.Fatalf("unexpected history: %+v", history)
	}

	var report models.Report
	srv.expect(srv.do(http.MethodPost, "/v1/reports", token, map[string]any{"aircraft_code": 100, "author": "Ana"}), http.StatusOK, &report)
	if report.Author != "Ana" || len(report.Aircraft.Parts) != 1 || len(report.Aircraft.Stages) != 1 || len(report.Aircraft.Tests) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	res := srv.do(http.MethodGet, "/v1/reports/100/export?author=Ana", token, nil)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("export: expected 200 got %d body=%s", res.StatusCode, string(body))
	}
	if cd := res.Header.Get("Content-Disposition"); cd != `attachment; filename="Report_Aircraft_100_E195_E2.txt"` {
		t.Fatalf("export: unexpected Content-Disposition %q", cd)
	}
	if !strings.HasPrefix(string(body), "--- AIRCRAFT COMPLIANCE REPORT ---") || !strings.Contains(string(body), "Author: Ana") {
		t.Fatalf("export: unexpected body:\n%s", string(body))
	}

	var blocked apiError
	srv.expect(srv.do(http.MethodDelete, "/v1/aircraft/100", token, nil), http.StatusForbidden, &blocked)
	if blocked.Detail["parts"] != float64(1) {
		t.Fatalf("expected dependent counts in detail, got %+v", blocked.Detail)
	}
	var busy apiError
	srv.expect(srv.do(http.MethodDelete, fmt.Sprintf("/v1/employees/%d", emp.ID), token, nil), http.StatusForbidden, &busy)
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(adminLogin, adminPassword)

	t.Run("Unauthenticated", func(t *testing.T) {
		srv.expect(srv.do(http.MethodGet, "/v1/aircraft", "", nil), http.StatusUnauthorized, nil)
	})

	t.Run("BadPathID", func(t *testing.T) {
		var e apiError
		srv.expect(srv.do(http.MethodGet, "/v1/aircraft/abc", token, nil), http.StatusBadRequest, &e)
		if e.Error != "code must be a positive integer" {
			t.Fatalf("unexpected message: %q", e.Error)
		}
	})

	t.Run("BadQueryID", func(t *testing.T) {
		srv.expect(srv.do(http.MethodGet, "/v1/parts?aircraft=-1", token, nil), http.StatusBadRequest, nil)
	})

	t.Run("ValidationDetail", func(t *testing.T) {
		var e apiError
		srv.expect(srv.do(http.MethodPost, "/v1/aircraft", token, map[string]any{"code": 1, "model": "X", "category": "Cargo", "capacity": 1, "range": 1}), http.StatusBadRequest, &e)
		if e.Detail["Category"] == nil {
			t.Fatalf("expected Category in detail, got %+v", e.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		srv.expect(srv.do(http.MethodGet, "/v1/aircraft/999", token, nil), http.StatusNotFound, nil)
		srv.expect(srv.do(http.MethodPost, "/v1/tests", token, map[string]any{"aircraft_code": 999, "type": "Hydraulic", "result": "Approved"}), http.StatusNotFound, nil)
	})

	t.Run("ReportWithoutStages", func(t *testing.T) {
		var e apiError
		srv.expect(srv.do(http.MethodPost, "/v1/reports", token, map[string]any{"aircraft_code": 999, "author": "Ana"}), http.StatusForbidden, &e)
		if e.Error != "no production stages found" {
			t.Fatalf("unexpected message: %q", e.Error)
		}
	})

	t.Run("ExportRequiresAuthor", func(t *testing.T) {
		srv.expect(srv.do(http.MethodGet, "/v1/reports/1/export", token, nil), http.StatusBadRequest, nil)
	})
}

func TestEmployeeRoutesByRole(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login(adminLogin, adminPassword)

	var op models.Employee
	srv.expect(srv.do(http.MethodPost, "/v1/employees", admin, employeeBody("Bruno Lima", "bruno", models.RoleOperator)), http.StatusCreated, &op)
	srv.expect(srv.do(http.MethodPost, "/v1/employees", admin, employeeBody("Bruno Lima", "bruno", models.RoleOperator)), http.StatusConflict, nil)

	operator := srv.login("bruno", "secret")
	srv.expect(srv.do(http.MethodGet, "/v1/employees", operator, nil), http.StatusForbidden, nil)
	srv.expect(srv.do(http.MethodGet, fmt.Sprintf("/v1/employees/%d", op.ID), operator, nil), http.StatusForbidden, nil)

	var summary []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	}
	srv.expect(srv.do(http.MethodGet, "/v1/employees/summary", operator, nil), http.StatusOK, &summary)
	if len(summary) != 2 {
		t.Fatalf("expected admin and operator in summary, got %+v", summary)
	}

	var got models.Employee
	srv.expect(srv.do(http.MethodGet, fmt.Sprintf("/v1/employees/%d", op.ID), admin, nil), http.StatusOK, &got)
	if got.Address == nil || got.Phone == nil || got.Address.City != "Sao Jose dos Campos" {
		t.Fatalf("expected address and phone, got %+v", got)
	}

	srv.expect(srv.do(http.MethodDelete, fmt.Sprintf("/v1/employees/%d", op.ID), admin, nil), http.StatusNoContent, nil)
	srv.expect(srv.do(http.MethodGet, fmt.Sprintf("/v1/employees/%d", op.ID), admin, nil), http.StatusNotFound, nil)
}
