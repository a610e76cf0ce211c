package http

import (
	"net/http"
	"time"

	"clinic-agenda/internal/delivery/http/handler"
	"clinic-agenda/internal/delivery/http/middleware"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	calendarHandler    *handler.CalendarHandler
	fixedDayHandler    *handler.FixedDayHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loginRatePerMinute int
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	calendarHandler *handler.CalendarHandler,
	fixedDayHandler *handler.FixedDayHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loginRatePerMinute int,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		calendarHandler:    calendarHandler,
		fixedDayHandler:    fixedDayHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loginRatePerMinute: loginRatePerMinute,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public, throttled per client IP)
	login := http.Handler(http.HandlerFunc(r.authHandler.Login))
	if r.loginRatePerMinute > 0 {
		login = httprate.LimitByIP(r.loginRatePerMinute, time.Minute)(login)
	}
	api.Handle("/auth/login", login).Methods(http.MethodPost)

	// Everything below requires an operator token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentOperator).Methods(http.MethodGet)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/cancel-by-patient", r.appointmentHandler.CancelByPatient).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)

	// Calendar
	protected.HandleFunc("/calendar/{year:[0-9]+}/{month:[0-9]+}", r.calendarHandler.GetMonth).Methods(http.MethodGet)

	// Fixed day assignments
	protected.HandleFunc("/fixed-assignments", r.fixedDayHandler.ListAssignments).Methods(http.MethodGet)
	protected.HandleFunc("/fixed-assignments", r.fixedDayHandler.AssignFixedDay).Methods(http.MethodPost)
	protected.HandleFunc("/fixed-assignments/{patient}", r.fixedDayHandler.GetAssignment).Methods(http.MethodGet)
	protected.HandleFunc("/fixed-assignments/{patient}", r.fixedDayHandler.RemoveAssignment).Methods(http.MethodDelete)

	// Audit trail
	protected.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)
	protected.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
