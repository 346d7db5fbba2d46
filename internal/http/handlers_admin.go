package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/service"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

// AdminHandlers proxies the admin route tree to the upstream clinic API.
// Every handler runs behind the admin role guard, so the session ID is
// always present in the request context.
type AdminHandlers struct {
	API       upstream.AdminAPI
	Dashboard *service.DashboardService
}

// respond writes either the upstream result or the translated error.
func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

func respondNoContent(w http.ResponseWriter, err error) {
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// --- dashboard ---

func (h *AdminHandlers) DashboardSnapshot(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())
	snap, err := h.Dashboard.Refresh(r.Context(), sid)
	if errors.Is(err, service.ErrRefreshSuperseded) {
		// A newer refresh owns the generation; the caller should retry.
		WriteJSON(w, http.StatusConflict, errorBody{Error: "superseded", Message: err.Error()})
		return
	}
	respond(w, snap, err)
}

// --- clinics ---

func (h *AdminHandlers) ListClinics(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.ListClinics(r.Context(), SessionIDFromContext(r.Context()))
	respond(w, out, err)
}

func (h *AdminHandlers) CreateClinic(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if name == "" {
		WriteAppError(w, apperrors.Validation("clinic name is required"))
		return
	}
	photo, ok := formUpload(w, r, "photo")
	if !ok {
		return
	}
	out, err := h.API.CreateClinic(r.Context(), SessionIDFromContext(r.Context()), name, photo)
	respond(w, out, err)
}

func (h *AdminHandlers) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	photo, ok := formUpload(w, r, "photo")
	if !ok {
		return
	}
	out, err := h.API.UpdateClinic(r.Context(), SessionIDFromContext(r.Context()), id, r.FormValue("name"), photo)
	respond(w, out, err)
}

func (h *AdminHandlers) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.DeleteClinic(r.Context(), SessionIDFromContext(r.Context()), id))
}

func (h *AdminHandlers) ClinicDoctors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.ClinicDoctors(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

func (h *AdminHandlers) ClinicDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.ClinicDetails(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

// --- employees ---

func (h *AdminHandlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	var isSecretary *int
	if raw := r.URL.Query().Get("is_secretary"); raw != "" {
		v := queryInt(r, "is_secretary", 0)
		isSecretary = &v
	}
	out, err := h.API.ListEmployees(r.Context(), SessionIDFromContext(r.Context()), isSecretary)
	respond(w, out, err)
}

func (h *AdminHandlers) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var in upstream.NewEmployee
	if !DecodeJSON(w, r, &in) {
		return
	}
	out, err := h.API.AddEmployee(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in upstream.NewEmployee
	if !DecodeJSON(w, r, &in) {
		return
	}
	in.UserID = id
	out, err := h.API.UpdateEmployee(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.RemoveEmployee(r.Context(), SessionIDFromContext(r.Context()), id))
}

// --- doctors ---

func (h *AdminHandlers) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var in json.RawMessage
	if !DecodeJSON(w, r, &in) {
		return
	}
	out, err := h.API.CreateDoctor(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) ListDoctors(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.ListDoctors(r.Context(), SessionIDFromContext(r.Context()),
		queryInt(r, "page", 1), queryInt(r, "size", 10))
	respond(w, out, err)
}

func (h *AdminHandlers) DoctorDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.DoctorDetails(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

func (h *AdminHandlers) DoctorReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.DoctorReviews(r.Context(), SessionIDFromContext(r.Context()), id,
		queryInt(r, "page", 1), queryInt(r, "size", 10))
	respond(w, out, err)
}

func (h *AdminHandlers) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.DeleteDoctor(r.Context(), SessionIDFromContext(r.Context()), id))
}

func (h *AdminHandlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.DeleteReview(r.Context(), SessionIDFromContext(r.Context()), id))
}

// --- appointments ---

func (h *AdminHandlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.ListAppointments(r.Context(), SessionIDFromContext(r.Context()))
	respond(w, out, err)
}

func (h *AdminHandlers) AppointmentsByDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.AppointmentsByDoctor(r.Context(), SessionIDFromContext(r.Context()), id, r.URL.Query().Get("date"))
	respond(w, out, err)
}

func (h *AdminHandlers) AppointmentsByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		WriteAppError(w, apperrors.Validation("status is required"))
		return
	}
	out, err := h.API.AppointmentsByStatus(r.Context(), SessionIDFromContext(r.Context()), status, r.URL.Query().Get("date"))
	respond(w, out, err)
}

func (h *AdminHandlers) AppointmentsByMonth(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		WriteAppError(w, apperrors.Validation("date is required"))
		return
	}
	out, err := h.API.AppointmentsByMonth(r.Context(), SessionIDFromContext(r.Context()), date)
	respond(w, out, err)
}

// --- patients ---

func (h *AdminHandlers) ListPatients(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.ListPatients(r.Context(), SessionIDFromContext(r.Context()),
		queryInt(r, "page", 1), queryInt(r, "size", 10))
	respond(w, out, err)
}

func (h *AdminHandlers) RemovePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.RemovePatient(r.Context(), SessionIDFromContext(r.Context()), id))
}

// --- payments ---

func (h *AdminHandlers) Payments(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.Payments(r.Context(), SessionIDFromContext(r.Context()))
	respond(w, out, err)
}

func (h *AdminHandlers) PaymentsByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		WriteAppError(w, apperrors.Validation("date is required"))
		return
	}
	out, err := h.API.PaymentsByDate(r.Context(), SessionIDFromContext(r.Context()), date)
	respond(w, out, err)
}

func (h *AdminHandlers) PaymentsByDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.PaymentsByDoctor(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

// --- pharmacies ---

func (h *AdminHandlers) ListPharmacies(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.ListPharmacies(r.Context(), SessionIDFromContext(r.Context()),
		queryInt(r, "page", 1), queryInt(r, "size", 10))
	respond(w, out, err)
}

func (h *AdminHandlers) CreatePharmacy(w http.ResponseWriter, r *http.Request) {
	var in upstream.NewPharmacy
	if !DecodeJSON(w, r, &in) {
		return
	}
	out, err := h.API.CreatePharmacy(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) UpdatePharmacy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in upstream.NewPharmacy
	if !DecodeJSON(w, r, &in) {
		return
	}
	in.PharmacyID = id
	out, err := h.API.UpdatePharmacy(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) DeletePharmacy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.DeletePharmacy(r.Context(), SessionIDFromContext(r.Context()), id))
}

func (h *AdminHandlers) SearchPharmacies(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		WriteAppError(w, apperrors.Validation("name is required"))
		return
	}
	out, err := h.API.SearchPharmacies(r.Context(), SessionIDFromContext(r.Context()), name)
	respond(w, out, err)
}

// --- vaccines ---

func (h *AdminHandlers) ListVaccines(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.ListVaccines(r.Context(), SessionIDFromContext(r.Context()),
		queryInt(r, "page", 1), queryInt(r, "per_page", 10))
	respond(w, out, err)
}

func (h *AdminHandlers) VaccineDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.VaccineDetails(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

func (h *AdminHandlers) CreateVaccine(w http.ResponseWriter, r *http.Request) {
	var in upstream.NewVaccine
	if !DecodeJSON(w, r, &in) {
		return
	}
	out, err := h.API.CreateVaccine(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) UpdateVaccine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in upstream.NewVaccine
	if !DecodeJSON(w, r, &in) {
		return
	}
	in.VaccineID = id
	out, err := h.API.UpdateVaccine(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}

func (h *AdminHandlers) RemoveVaccine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.RemoveVaccine(r.Context(), SessionIDFromContext(r.Context()), id))
}

// --- reports ---

func (h *AdminHandlers) Reports(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.Reports(r.Context(), SessionIDFromContext(r.Context()),
		queryInt(r, "page", 1), queryInt(r, "size", 10))
	respond(w, out, err)
}
