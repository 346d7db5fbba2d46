package httpx

import (
	"net/http"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

// DoctorHandlers proxies the doctor route tree to the upstream clinic API.
// Runs behind the doctor role guard.
type DoctorHandlers struct {
	API upstream.DoctorAPI
}

func (h *DoctorHandlers) Appointments(w http.ResponseWriter, r *http.Request) {
	out, err := h.API.Appointments(r.Context(), SessionIDFromContext(r.Context()))
	respond(w, out, err)
}

func (h *DoctorHandlers) AppointmentDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.AppointmentDetails(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

func (h *DoctorHandlers) AppointmentResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.AppointmentResults(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

func (h *DoctorHandlers) AppointmentsByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		WriteAppError(w, apperrors.Validation("status is required"))
		return
	}
	out, err := h.API.AppointmentsByStatus(r.Context(), SessionIDFromContext(r.Context()), status)
	respond(w, out, err)
}

func (h *DoctorHandlers) AppointmentsByType(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, typ := q.Get("status"), q.Get("type")
	if status == "" || typ == "" {
		WriteAppError(w, apperrors.Validation("status and type are required"))
		return
	}
	out, err := h.API.AppointmentsByType(r.Context(), SessionIDFromContext(r.Context()), status, typ)
	respond(w, out, err)
}

func (h *DoctorHandlers) PatientAppointments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	out, err := h.API.PatientAppointments(r.Context(), SessionIDFromContext(r.Context()), id)
	respond(w, out, err)
}

func (h *DoctorHandlers) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respondNoContent(w, h.API.CancelAppointment(r.Context(), SessionIDFromContext(r.Context()), id))
}

func (h *DoctorHandlers) EditSchedule(w http.ResponseWriter, r *http.Request) {
	var in upstream.Schedule
	if !DecodeJSON(w, r, &in) {
		return
	}
	out, err := h.API.EditSchedule(r.Context(), SessionIDFromContext(r.Context()), in)
	respond(w, out, err)
}
