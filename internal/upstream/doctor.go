package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// DoctorAPI exposes the upstream endpoints behind the doctor route tree.
type DoctorAPI struct {
	c *Client
}

// Doctor returns the doctor resource surface.
func (c *Client) Doctor() DoctorAPI {
	return DoctorAPI{c: c}
}

func (d DoctorAPI) Appointments(ctx context.Context, sid string) (List[Appointment], error) {
	var raw json.RawMessage
	if err := d.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/doctor/showAllAppointments"}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (d DoctorAPI) AppointmentDetails(ctx context.Context, sid string, appointmentID int64) (Detail, error) {
	q := url.Values{}
	q.Set("appointment_id", strconv.FormatInt(appointmentID, 10))
	var out Detail
	err := d.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/doctor/showAppointmentDetails", query: q}, &out)
	return out, err
}

func (d DoctorAPI) AppointmentsByStatus(ctx context.Context, sid, status string) (List[Appointment], error) {
	var raw json.RawMessage
	if err := d.c.do(ctx, sid, requestSpec{
		method: http.MethodPost,
		path:   "/api/doctor/showAppointmentsByStatus",
		body:   map[string]string{"status": status},
	}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (d DoctorAPI) AppointmentsByType(ctx context.Context, sid, status, appointmentType string) (List[Appointment], error) {
	var raw json.RawMessage
	if err := d.c.do(ctx, sid, requestSpec{
		method: http.MethodPost,
		path:   "/api/doctor/showAppointmentsByType",
		body:   map[string]string{"status": status, "type": appointmentType},
	}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (d DoctorAPI) PatientAppointments(ctx context.Context, sid string, patientID int64) (List[Appointment], error) {
	q := url.Values{}
	q.Set("patient_id", strconv.FormatInt(patientID, 10))
	var raw json.RawMessage
	if err := d.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/doctor/showpatientAppointments", query: q}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (d DoctorAPI) AppointmentResults(ctx context.Context, sid string, appointmentID int64) (Detail, error) {
	q := url.Values{}
	q.Set("appointment_id", strconv.FormatInt(appointmentID, 10))
	var out Detail
	err := d.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/doctor/showAppointmantResults", query: q}, &out)
	return out, err
}

func (d DoctorAPI) CancelAppointment(ctx context.Context, sid string, reservationID int64) error {
	q := url.Values{}
	q.Set("reservation_id", strconv.FormatInt(reservationID, 10))
	return d.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/doctor/cancelAppointment", query: q}, nil)
}

// Schedule carries a doctor's working-hours update.
type Schedule struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (d DoctorAPI) EditSchedule(ctx context.Context, sid string, in Schedule) (Detail, error) {
	var out Detail
	err := d.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/doctor/editSchedule", body: in}, &out)
	return out, err
}
