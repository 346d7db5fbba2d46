package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// AdminAPI exposes the upstream endpoints behind the admin route tree.
type AdminAPI struct {
	c *Client
}

// Admin returns the admin resource surface.
func (c *Client) Admin() AdminAPI {
	return AdminAPI{c: c}
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// --- clinics ---

func (a AdminAPI) ListClinics(ctx context.Context, sid string) (List[Clinic], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showClinic"}, &raw); err != nil {
		return List[Clinic]{}, err
	}
	return decodeList[Clinic](raw, "clinics")
}

// CreateClinic posts a multipart form; the photo part is optional.
func (a AdminAPI) CreateClinic(ctx context.Context, sid, name string, photo *Upload) (Detail, error) {
	form := newMultipartForm().set("name", name).attach(photo)
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/addClinic", form: form}, &out)
	return out, err
}

func (a AdminAPI) UpdateClinic(ctx context.Context, sid string, clinicID int64, name string, photo *Upload) (Detail, error) {
	form := newMultipartForm().
		set("clinic_id", strconv.FormatInt(clinicID, 10)).
		set("name", name).
		attach(photo)
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/editClinic", form: form}, &out)
	return out, err
}

func (a AdminAPI) DeleteClinic(ctx context.Context, sid string, clinicID int64) error {
	return a.c.do(ctx, sid, requestSpec{
		method: http.MethodDelete,
		path:   "/api/admin/removeClinic",
		body:   map[string]int64{"clinic_id": clinicID},
	}, nil)
}

func (a AdminAPI) ClinicDoctors(ctx context.Context, sid string, clinicID int64) (List[Doctor], error) {
	q := url.Values{}
	q.Set("clinic_id", strconv.FormatInt(clinicID, 10))
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showDoctorsClinic", query: q}, &raw); err != nil {
		return List[Doctor]{}, err
	}
	return decodeList[Doctor](raw, "doctors")
}

func (a AdminAPI) ClinicDetails(ctx context.Context, sid string, clinicID int64) (Detail, error) {
	q := url.Values{}
	q.Set("clinic_id", strconv.FormatInt(clinicID, 10))
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showDetails", query: q}, &out)
	return out, err
}

// --- employees ---

// ListEmployees filters by secretary flag when isSecretary is non-nil
// (1 secretaries, 0 other staff).
func (a AdminAPI) ListEmployees(ctx context.Context, sid string, isSecretary *int) (List[Employee], error) {
	q := url.Values{}
	if isSecretary != nil {
		q.Set("is_secretary", strconv.Itoa(*isSecretary))
	}
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showEmployee", query: q}, &raw); err != nil {
		return List[Employee]{}, err
	}
	return decodeList[Employee](raw, "employees")
}

func (a AdminAPI) AddEmployee(ctx context.Context, sid string, in NewEmployee) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/addEmployee", body: in}, &out)
	return out, err
}

func (a AdminAPI) UpdateEmployee(ctx context.Context, sid string, in NewEmployee) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/editEmployee", body: in}, &out)
	return out, err
}

func (a AdminAPI) RemoveEmployee(ctx context.Context, sid string, userID int64) error {
	return a.c.do(ctx, sid, requestSpec{
		method: http.MethodDelete,
		path:   "/api/admin/removeEmployee",
		body:   map[string]int64{"user_id": userID},
	}, nil)
}

// --- doctors ---

func (a AdminAPI) CreateDoctor(ctx context.Context, sid string, doctor json.RawMessage) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/addDoctor", body: doctor}, &out)
	return out, err
}

func (a AdminAPI) ListDoctors(ctx context.Context, sid string, page, size int) (List[Doctor], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showDoctors", query: pageQuery(page, size)}, &raw); err != nil {
		return List[Doctor]{}, err
	}
	return decodeList[Doctor](raw, "doctors")
}

func (a AdminAPI) DoctorDetails(ctx context.Context, sid string, doctorID int64) (Detail, error) {
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showDoctorDetails", query: q}, &out)
	return out, err
}

func (a AdminAPI) DoctorReviews(ctx context.Context, sid string, doctorID int64, page, size int) (List[Review], error) {
	q := pageQuery(page, size)
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showDoctorReviews", query: q}, &raw); err != nil {
		return List[Review]{}, err
	}
	return decodeList[Review](raw, "reviews")
}

func (a AdminAPI) DeleteDoctor(ctx context.Context, sid string, doctorID int64) error {
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))
	return a.c.do(ctx, sid, requestSpec{method: http.MethodDelete, path: "/api/admin/removeDoctor", query: q}, nil)
}

func (a AdminAPI) DeleteReview(ctx context.Context, sid string, reviewID int64) error {
	q := url.Values{}
	q.Set("review_id", strconv.FormatInt(reviewID, 10))
	return a.c.do(ctx, sid, requestSpec{method: http.MethodDelete, path: "/api/admin/deleteReview", query: q}, nil)
}

// --- appointments ---

func (a AdminAPI) ListAppointments(ctx context.Context, sid string) (List[Appointment], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showAllAppointments"}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (a AdminAPI) AppointmentsByDoctor(ctx context.Context, sid string, doctorID int64, date string) (List[Appointment], error) {
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))
	if date != "" {
		q.Set("date", date)
	}
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/filteringAppointmentByDoctor", query: q}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (a AdminAPI) AppointmentsByStatus(ctx context.Context, sid, status, date string) (List[Appointment], error) {
	body := map[string]string{"status": status}
	if date != "" {
		body["date"] = date
	}
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/filteringAppointmentByStatus", body: body}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

func (a AdminAPI) AppointmentsByMonth(ctx context.Context, sid, date string) (List[Appointment], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{
		method: http.MethodPost,
		path:   "/api/admin/filteringAppointmentsByDate",
		body:   map[string]string{"date": date},
	}, &raw); err != nil {
		return List[Appointment]{}, err
	}
	return decodeList[Appointment](raw, "appointments")
}

// --- patients ---

func (a AdminAPI) ListPatients(ctx context.Context, sid string, page, size int) (List[Patient], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showPatients", query: pageQuery(page, size)}, &raw); err != nil {
		return List[Patient]{}, err
	}
	return decodeList[Patient](raw, "patients")
}

func (a AdminAPI) RemovePatient(ctx context.Context, sid string, patientID int64) error {
	q := url.Values{}
	q.Set("patient_id", strconv.FormatInt(patientID, 10))
	return a.c.do(ctx, sid, requestSpec{method: http.MethodDelete, path: "/api/admin/deletePatient", query: q}, nil)
}

// --- payments ---

func (a AdminAPI) Payments(ctx context.Context, sid string) (List[Payment], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showAllPayments"}, &raw); err != nil {
		return List[Payment]{}, err
	}
	return decodeList[Payment](raw, "payments")
}

func (a AdminAPI) PaymentsByDate(ctx context.Context, sid, date string) (List[Payment], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{
		method: http.MethodPost,
		path:   "/api/admin/showPaymentDetailsByDate",
		body:   map[string]string{"date": date},
	}, &raw); err != nil {
		return List[Payment]{}, err
	}
	return decodeList[Payment](raw, "payments")
}

func (a AdminAPI) PaymentsByDoctor(ctx context.Context, sid string, doctorID int64) (List[Payment], error) {
	q := url.Values{}
	q.Set("doctor_id", strconv.FormatInt(doctorID, 10))
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showPaymentDetailsByDoctor", query: q}, &raw); err != nil {
		return List[Payment]{}, err
	}
	return decodeList[Payment](raw, "payments")
}

// --- pharmacies ---

func (a AdminAPI) ListPharmacies(ctx context.Context, sid string, page, size int) (List[Pharmacy], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showAllPharmacies", query: pageQuery(page, size)}, &raw); err != nil {
		return List[Pharmacy]{}, err
	}
	return decodeList[Pharmacy](raw, "pharmacies")
}

func (a AdminAPI) CreatePharmacy(ctx context.Context, sid string, in NewPharmacy) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/add_Pharmacy", body: in}, &out)
	return out, err
}

func (a AdminAPI) UpdatePharmacy(ctx context.Context, sid string, in NewPharmacy) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/update_Pharmacy", body: in}, &out)
	return out, err
}

func (a AdminAPI) DeletePharmacy(ctx context.Context, sid string, pharmacyID int64) error {
	q := url.Values{}
	q.Set("pharmacy_id", strconv.FormatInt(pharmacyID, 10))
	return a.c.do(ctx, sid, requestSpec{method: http.MethodDelete, path: "/api/admin/delete_Pharmacy", query: q}, nil)
}

func (a AdminAPI) SearchPharmacies(ctx context.Context, sid, name string) (List[Pharmacy], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{
		method: http.MethodPost,
		path:   "/api/admin/searchPharmacy",
		body:   map[string]string{"name": name},
	}, &raw); err != nil {
		return List[Pharmacy]{}, err
	}
	return decodeList[Pharmacy](raw, "pharmacies")
}

// --- vaccines ---

func (a AdminAPI) ListVaccines(ctx context.Context, sid string, page, perPage int) (List[Vaccine], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/show", query: q}, &raw); err != nil {
		return List[Vaccine]{}, err
	}
	return decodeList[Vaccine](raw, "vaccines")
}

func (a AdminAPI) VaccineDetails(ctx context.Context, sid string, vaccineID int64) (Detail, error) {
	q := url.Values{}
	q.Set("vaccine_id", strconv.FormatInt(vaccineID, 10))
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showDetails", query: q}, &out)
	return out, err
}

func (a AdminAPI) CreateVaccine(ctx context.Context, sid string, in NewVaccine) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/add", body: in}, &out)
	return out, err
}

func (a AdminAPI) UpdateVaccine(ctx context.Context, sid string, in NewVaccine) (Detail, error) {
	var out Detail
	err := a.c.do(ctx, sid, requestSpec{method: http.MethodPost, path: "/api/admin/edit", body: in}, &out)
	return out, err
}

func (a AdminAPI) RemoveVaccine(ctx context.Context, sid string, vaccineID int64) error {
	q := url.Values{}
	q.Set("vaccine_id", strconv.FormatInt(vaccineID, 10))
	return a.c.do(ctx, sid, requestSpec{method: http.MethodDelete, path: "/api/admin/remove", query: q}, nil)
}

// --- reports ---

func (a AdminAPI) Reports(ctx context.Context, sid string, page, size int) (List[Report], error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, sid, requestSpec{method: http.MethodGet, path: "/api/admin/showAllReports", query: pageQuery(page, size)}, &raw); err != nil {
		return List[Report]{}, err
	}
	return decodeList[Report](raw, "reports")
}
