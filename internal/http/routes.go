package httpx

import (
	"log/slog"
	"net/http"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	"github.com/clinicdesk/ui-gateway/internal/service"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	AdminAuth  AuthService
	DoctorAuth AuthService
	// Sessions resolves cookies for the role guards. Both auth variants read
	// the same credential store, so either works; bootstrap passes AdminAuth.
	Sessions     SessionSource
	Admin        upstream.AdminAPI
	Doctor       upstream.DoctorAPI
	Dashboard    *service.DashboardService
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the gateway HTTP router. The admin and
// doctor trees are disjoint: each is guarded by its exact role, and a session
// of one role gets 403 on the other tree without being torn down.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Admin:        services.AdminAuth,
		Doctor:       services.DoctorAuth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	if services.Dashboard != nil {
		authHandlers.OnLogout = services.Dashboard.Forget
	}
	registerAuthRoutes(mux, authHandlers)

	adminOnly := RequireRole(services.Sessions, session.RoleAdmin)
	doctorOnly := RequireRole(services.Sessions, session.RoleDoctor)

	adminHandlers := &AdminHandlers{API: services.Admin, Dashboard: services.Dashboard}
	registerAdminRoutes(mux, adminHandlers, adminOnly)

	doctorHandlers := &DoctorHandlers{API: services.Doctor}
	registerDoctorRoutes(mux, doctorHandlers, doctorOnly)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Logging(logger)(Recover(logger)(mux))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/admin/login", h.AdminLogin)
	mux.HandleFunc("POST /auth/doctor/login", h.DoctorLogin)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

type guard func(http.Handler) http.Handler

func handle(mux *http.ServeMux, g guard, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, g(h))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, g guard) {
	handle(mux, g, "GET /api/admin/dashboard", h.DashboardSnapshot)

	handle(mux, g, "GET /api/admin/clinics", h.ListClinics)
	handle(mux, g, "POST /api/admin/clinics", h.CreateClinic)
	handle(mux, g, "PUT /api/admin/clinics/{id}", h.UpdateClinic)
	handle(mux, g, "DELETE /api/admin/clinics/{id}", h.DeleteClinic)
	handle(mux, g, "GET /api/admin/clinics/{id}", h.ClinicDetails)
	handle(mux, g, "GET /api/admin/clinics/{id}/doctors", h.ClinicDoctors)

	handle(mux, g, "GET /api/admin/employees", h.ListEmployees)
	handle(mux, g, "POST /api/admin/employees", h.AddEmployee)
	handle(mux, g, "PUT /api/admin/employees/{id}", h.UpdateEmployee)
	handle(mux, g, "DELETE /api/admin/employees/{id}", h.RemoveEmployee)

	handle(mux, g, "GET /api/admin/doctors", h.ListDoctors)
	handle(mux, g, "POST /api/admin/doctors", h.CreateDoctor)
	handle(mux, g, "GET /api/admin/doctors/{id}", h.DoctorDetails)
	handle(mux, g, "GET /api/admin/doctors/{id}/reviews", h.DoctorReviews)
	handle(mux, g, "GET /api/admin/doctors/{id}/appointments", h.AppointmentsByDoctor)
	handle(mux, g, "GET /api/admin/doctors/{id}/payments", h.PaymentsByDoctor)
	handle(mux, g, "DELETE /api/admin/doctors/{id}", h.DeleteDoctor)
	handle(mux, g, "DELETE /api/admin/reviews/{id}", h.DeleteReview)

	handle(mux, g, "GET /api/admin/appointments", h.ListAppointments)
	handle(mux, g, "GET /api/admin/appointments/by-status", h.AppointmentsByStatus)
	handle(mux, g, "GET /api/admin/appointments/by-month", h.AppointmentsByMonth)

	handle(mux, g, "GET /api/admin/patients", h.ListPatients)
	handle(mux, g, "DELETE /api/admin/patients/{id}", h.RemovePatient)

	handle(mux, g, "GET /api/admin/payments", h.Payments)
	handle(mux, g, "GET /api/admin/payments/by-date", h.PaymentsByDate)

	handle(mux, g, "GET /api/admin/pharmacies", h.ListPharmacies)
	handle(mux, g, "POST /api/admin/pharmacies", h.CreatePharmacy)
	handle(mux, g, "PUT /api/admin/pharmacies/{id}", h.UpdatePharmacy)
	handle(mux, g, "DELETE /api/admin/pharmacies/{id}", h.DeletePharmacy)
	handle(mux, g, "GET /api/admin/pharmacies/search", h.SearchPharmacies)

	handle(mux, g, "GET /api/admin/vaccines", h.ListVaccines)
	handle(mux, g, "POST /api/admin/vaccines", h.CreateVaccine)
	handle(mux, g, "GET /api/admin/vaccines/{id}", h.VaccineDetails)
	handle(mux, g, "PUT /api/admin/vaccines/{id}", h.UpdateVaccine)
	handle(mux, g, "DELETE /api/admin/vaccines/{id}", h.RemoveVaccine)

	handle(mux, g, "GET /api/admin/reports", h.Reports)
}

func registerDoctorRoutes(mux *http.ServeMux, h *DoctorHandlers, g guard) {
	handle(mux, g, "GET /api/doctor/appointments", h.Appointments)
	handle(mux, g, "GET /api/doctor/appointments/by-status", h.AppointmentsByStatus)
	handle(mux, g, "GET /api/doctor/appointments/by-type", h.AppointmentsByType)
	handle(mux, g, "GET /api/doctor/appointments/{id}", h.AppointmentDetails)
	handle(mux, g, "GET /api/doctor/appointments/{id}/results", h.AppointmentResults)
	handle(mux, g, "POST /api/doctor/appointments/{id}/cancel", h.CancelAppointment)
	handle(mux, g, "GET /api/doctor/patients/{id}/appointments", h.PatientAppointments)
	handle(mux, g, "POST /api/doctor/schedule", h.EditSchedule)
}
