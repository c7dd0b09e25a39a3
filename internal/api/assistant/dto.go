package assistant

import (
	"time"
)

type CommandRequest struct {
	Text          string `json:"text" validate:"required,min=1,max=500"`
	GenerateAudio bool   `json:"generate_audio_response"`
}

type CommandResponse struct {
	Command    string      `json:"command"`
	Intent     string      `json:"intent"`
	Response   string      `json:"response"`
	Data       interface{} `json:"data,omitempty"`
	Confidence float64     `json:"confidence"`
	AudioURL   string      `json:"audio_url,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

type TranscriptionResponse struct {
	Transcription string    `json:"transcription"`
	Timestamp     time.Time `json:"timestamp"`
}

type AppointmentRequest struct {
	PatientName     string    `json:"patient_name" validate:"required,min=1,max=100"`
	DoctorName      string    `json:"doctor_name" validate:"required,min=1,max=100"`
	AppointmentTime time.Time `json:"appointment_time" validate:"required"`
	Notes           string    `json:"notes,omitempty" validate:"max=500"`
}

type AppointmentResponse struct {
	ID              string    `json:"id"`
	PatientName     string    `json:"patient_name"`
	DoctorName      string    `json:"doctor_name"`
	AppointmentTime time.Time `json:"appointment_time"`
	Notes           string    `json:"notes,omitempty"`
	Status          string    `json:"status"`
}

type PatientQueryRequest struct {
	PatientName string `json:"patient_name" validate:"required,min=1,max=100"`
}

type PatientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type VisitSummary struct {
	VisitDate  time.Time `json:"visit_date"`
	DoctorName string    `json:"doctor_name"`
	Diagnosis  string    `json:"diagnosis,omitempty"`
}

type PatientInfoResponse struct {
	PatientSummary
	RecentVisits         []VisitSummary        `json:"recent_visits"`
	UpcomingAppointments []AppointmentResponse `json:"upcoming_appointments"`
}

type InteractionHistory struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Intent     string    `json:"intent"`
	Response   string    `json:"response"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
