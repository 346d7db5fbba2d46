package upstream

import "encoding/json"

// Entity shapes mirror what the upstream clinic API returns. Only the fields
// the gateway reads are typed; detail endpoints that the SPA renders verbatim
// come back as raw JSON.

type Clinic struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo"`
}

type Employee struct {
	UserID      int64  `json:"user_id"`
	IsSecretary int    `json:"is_secretary"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// NewEmployee carries the fields accepted by the add/edit employee endpoints.
// Password is optional on edit.
type NewEmployee struct {
	UserID      int64  `json:"user_id,omitempty"`
	IsSecretary int    `json:"is_secretary"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password,omitempty"`
}

type Doctor struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Specialty string  `json:"specialty"`
	ClinicID  int64   `json:"clinic_id"`
	Rating    float64 `json:"rating"`
}

type Review struct {
	ID       int64  `json:"id"`
	DoctorID int64  `json:"doctor_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type Appointment struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctor_id"`
	PatientID int64  `json:"patient_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Type      string `json:"type"`
}

type Patient struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type Payment struct {
	ID       int64   `json:"id"`
	DoctorID int64   `json:"doctor_id"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

type Pharmacy struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewPharmacy carries the fields accepted by the add/update pharmacy endpoints.
type NewPharmacy struct {
	PharmacyID int64   `json:"pharmacy_id,omitempty"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type Vaccine struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Doses       int    `json:"doses"`
}

// NewVaccine carries the fields accepted by the add/edit vaccine endpoints.
type NewVaccine struct {
	VaccineID   int64  `json:"vaccine_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Doses       int    `json:"doses"`
}

type Report struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	CreatedAt string          `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Detail is an untyped pass-through payload for endpoints whose shape the
// SPA consumes directly.
type Detail = json.RawMessage
