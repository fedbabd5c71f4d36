package http

import (
	"net/http"

	"medical-appointment-api/internal/delivery/http/handler"
	"medical-appointment-api/internal/delivery/http/middleware"
	"medical-appointment-api/internal/monitoring"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	doctorHandler      *handler.DoctorHandler
	patientHandler     *handler.PatientHandler
	appointmentHandler *handler.AppointmentHandler
	auditLogHandler    *handler.AuditLogHandler
	corsMiddleware     *middleware.CORSMiddleware
	requestMiddleware  *middleware.RequestMiddleware
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	corsMiddleware *middleware.CORSMiddleware,
	requestMiddleware *middleware.RequestMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		doctorHandler:      doctorHandler,
		patientHandler:     patientHandler,
		appointmentHandler: appointmentHandler,
		auditLogHandler:    auditLogHandler,
		corsMiddleware:     corsMiddleware,
		requestMiddleware:  requestMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint
	r.router.Handle("/metrics", monitoring.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctors
	api.HandleFunc("/doctors", r.doctorHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/doctors", r.doctorHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.Exclude).Methods(http.MethodDelete)

	// Patients
	api.HandleFunc("/patients", r.patientHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/patients", r.patientHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/patients/{id}", r.patientHandler.Exclude).Methods(http.MethodDelete)
	api.HandleFunc("/patients/{id}/appointments", r.patientHandler.ListAppointments).Methods(http.MethodGet)

	// Appointments
	api.HandleFunc("/appointments", r.appointmentHandler.Schedule).Methods(http.MethodPost)
	api.HandleFunc("/appointments", r.appointmentHandler.Cancel).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)

	// Audit trail
	api.HandleFunc("/audit-logs", r.auditLogHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/audit-logs/{id}", r.auditLogHandler.Get).Methods(http.MethodGet)

	r.router.Use(r.requestMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
