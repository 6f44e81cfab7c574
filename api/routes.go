package api

import (
	"github.com/garnizeh/aerocode/internal/app"
	"github.com/garnizeh/aerocode/internal/config"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// SetupRoutes builds the router. A nil registry disables /metrics and the
// HTTP instrumentation.
func SetupRoutes(cfg *config.Config, version, buildTime string, svc *app.Services, reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	if reg != nil {
		r.Use(NewHTTPMetrics(reg).Middleware)
		r.Handle("/metrics", MetricsHandler(reg)).Methods("GET")
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(svc.Employees, cfg.JWTSecret, cfg.TokenDuration)
	aircraftHandler := NewAircraftHandler(svc.Aircraft)
	partsHandler := NewPartsHandler(svc.Parts)
	stagesHandler := NewStagesHandler(svc.Stages)
	testsHandler := NewTestsHandler(svc.Tests)
	reportsHandler := NewReportsHandler(svc.Reports)
	employeesHandler := NewEmployeesHandler(svc.Employees)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/login", authHandler.Login).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// Aircraft
	apiV1.HandleFunc("/aircraft", aircraftHandler.Create).Methods("POST")
	apiV1.HandleFunc("/aircraft", aircraftHandler.List).Methods("GET")
	apiV1.HandleFunc("/aircraft/{code}", aircraftHandler.Get).Methods("GET")
	apiV1.HandleFunc("/aircraft/{code}", aircraftHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/aircraft/{code}", aircraftHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/aircraft/{code}/eligibility", reportsHandler.Eligibility).Methods("GET")
	apiV1.HandleFunc("/aircraft/{code}/tests", testsHandler.History).Methods("GET")

	// Parts
	apiV1.HandleFunc("/parts", partsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/parts", partsHandler.List).Methods("GET")
	apiV1.HandleFunc("/parts/{id}", partsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/parts/{id}", partsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/parts/{id}", partsHandler.Delete).Methods("DELETE")

	// Stages
	apiV1.HandleFunc("/stages", stagesHandler.Create).Methods("POST")
	apiV1.HandleFunc("/stages", stagesHandler.List).Methods("GET")
	apiV1.HandleFunc("/stages/{id}", stagesHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/stages/{id}", stagesHandler.Delete).Methods("DELETE")

	// Tests and reports
	apiV1.HandleFunc("/tests", testsHandler.Record).Methods("POST")
	apiV1.HandleFunc("/reports", reportsHandler.Generate).Methods("POST")
	apiV1.HandleFunc("/reports/{code}/export", reportsHandler.Export).Methods("GET")

	// Employees; the summary is open to every role
	apiV1.HandleFunc("/employees/summary", employeesHandler.Summary).Methods("GET")
	admin := apiV1.PathPrefix("/employees").Subrouter()
	admin.Use(RequireRole(models.RoleAdministrator))
	admin.HandleFunc("", employeesHandler.Create).Methods("POST")
	admin.HandleFunc("", employeesHandler.List).Methods("GET")
	admin.HandleFunc("/{id}", employeesHandler.Get).Methods("GET")
	admin.HandleFunc("/{id}", employeesHandler.Update).Methods("PUT")
	admin.HandleFunc("/{id}", employeesHandler.Delete).Methods("DELETE")

	return r
}
