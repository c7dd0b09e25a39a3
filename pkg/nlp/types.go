package nlp

import (
	"context"
	"errors"
	"time"
)

// Supported intents. Classification always yields one of these; IntentError
// is only produced by the outer Interpret boundary.
const (
	IntentBookAppointment  = "book_appointment"
	IntentQueryPatient     = "query_patient"
	IntentViewAppointments = "view_appointments"
	IntentViewPatients     = "view_patients"
	IntentGreeting         = "greeting"
	IntentHelp             = "help"
	IntentUnknown          = "unknown"
	IntentError            = "error"
)

var ErrPatientNotFound = errors.New("patient not found")

// Entities is the tagged per-intent entity set produced by classification.
// Intents without capture groups yield a nil Entities.
type Entities interface {
	intent() string
}

type BookAppointmentEntities struct {
	PatientName string
	DoctorName  string
	TimeToken   string
}

func (BookAppointmentEntities) intent() string { return IntentBookAppointment }

type QueryPatientEntities struct {
	PatientName string
}

func (QueryPatientEntities) intent() string { return IntentQueryPatient }

// Outcome is the result of interpreting one transcribed command.
type Outcome struct {
	Intent     string      `json:"intent"`
	Response   string      `json:"response"`
	Data       interface{} `json:"data,omitempty"`
	Confidence float64     `json:"confidence"`
}

type BookingData struct {
	AppointmentID   string `json:"appointment_id"`
	PatientName     string `json:"patient_name"`
	DoctorName      string `json:"doctor_name"`
	AppointmentTime string `json:"appointment_time"`
}

type Appointment struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	DoctorName  string    `json:"doctor_name"`
	Time        time.Time `json:"appointment_time"`
	Notes       string    `json:"notes,omitempty"`
}

type Patient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Visit struct {
	Date       time.Time `json:"visit_date"`
	DoctorName string    `json:"doctor_name"`
	Diagnosis  string    `json:"diagnosis,omitempty"`
}

type PatientRecord struct {
	Patient
	RecentVisits         []Visit       `json:"recent_visits"`
	UpcomingAppointments []Appointment `json:"upcoming_appointments"`
}

// SchedulingStore persists appointments. GetAppointments returns all
// appointments ordered by time ascending.
type SchedulingStore interface {
	CreateAppointment(ctx context.Context, patientName, doctorName string, at time.Time, notes string) (string, error)
	GetAppointments(ctx context.Context) ([]Appointment, error)
}

// PatientDirectory looks patients up by a case-insensitive name fragment.
// GetPatientInfo returns ErrPatientNotFound when no patient matches.
type PatientDirectory interface {
	GetPatientInfo(ctx context.Context, nameFragment string) (PatientRecord, error)
	GetAllPatients(ctx context.Context) ([]Patient, error)
}

// InteractionLogger records interpreted commands. Calls are fire-and-forget;
// errors never reach the caller of Interpret.
type InteractionLogger interface {
	Log(ctx context.Context, transcript, intent, response string, confidence float64) error
}
