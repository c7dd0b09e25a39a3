package nlp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	greetingResponse = "Hello! I'm AssistX, your medical assistant. How can I help you today?"

	fallbackResponse = "I'm sorry, I didn't understand that command. Try asking me to book an appointment, show patient information, or list appointments."

	helpResponse = `I can help you with the following commands:

1. Book appointments: "Book an appointment for John Doe at 3 PM tomorrow"
2. Query patients: "Show last visit for Ahmed Raza"
3. View appointments: "Show today's appointments"
4. View patients: "List all patients"

You can speak naturally, and I'll understand your requests!`

	displayTimeFormat = "2006-01-02 at 03:04 PM"
)

// Interpreter is the command interpretation engine. It owns no mutable state
// beyond its collaborators, so a single instance serves concurrent requests.
type Interpreter struct {
	log          *logrus.Logger
	store        SchedulingStore
	directory    PatientDirectory
	interactions InteractionLogger
	now          func() time.Time
}

type InterpreterOption func(*Interpreter)

// WithClock replaces the wall clock, pinning time resolution for tests.
func WithClock(now func() time.Time) InterpreterOption {
	return func(i *Interpreter) {
		i.now = now
	}
}

func NewInterpreter(
	log *logrus.Logger,
	store SchedulingStore,
	directory PatientDirectory,
	interactions InteractionLogger,
	opts ...InterpreterOption,
) *Interpreter {
	setup()

	interpreter := &Interpreter{
		log:          log,
		store:        store,
		directory:    directory,
		interactions: interactions,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(interpreter)
	}

	return interpreter
}

// Interpret classifies the raw transcript, dispatches to the matching
// handler and records the interaction. It never returns an error or panics;
// uncaught failures downgrade the outcome to the "error" intent.
func (i *Interpreter) Interpret(ctx context.Context, rawText string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			i.log.WithField("panic", fmt.Sprintf("%v", r)).Error("Command interpretation failed")
			outcome = Outcome{
				Intent:     IntentError,
				Response:   fmt.Sprintf("Sorry, I couldn't understand that command. Error: %v", r),
				Confidence: 0.0,
			}
		}
	}()

	intent, entities, confidence := Classify(rawText)
	command := Normalize(rawText)

	response, data := i.dispatch(ctx, intent, entities, command)

	outcome = Outcome{
		Intent:     intent,
		Response:   response,
		Data:       data,
		Confidence: confidence,
	}

	i.record(rawText, outcome)
	return outcome
}

func (i *Interpreter) dispatch(ctx context.Context, intent string, entities Entities, command string) (string, interface{}) {
	switch intent {
	case IntentBookAppointment:
		booking, _ := entities.(BookAppointmentEntities)
		return i.handleBookAppointment(ctx, booking, command)
	case IntentQueryPatient:
		query, _ := entities.(QueryPatientEntities)
		return i.handleQueryPatient(ctx, query)
	case IntentViewAppointments:
		return i.handleViewAppointments(ctx)
	case IntentViewPatients:
		return i.handleViewPatients(ctx)
	case IntentGreeting:
		return greetingResponse, nil
	case IntentHelp:
		return helpResponse, nil
	default:
		return fallbackResponse, nil
	}
}

func (i *Interpreter) handleBookAppointment(ctx context.Context, entities BookAppointmentEntities, command string) (string, interface{}) {
	if entities.PatientName == "" {
		return "I need a patient name to book an appointment. Please specify who the appointment is for.", nil
	}

	patientName := titleCase(entities.PatientName)
	doctorName := titleCase(entities.DoctorName)
	appointmentTime := ResolveTime(entities.TimeToken, command, i.now())

	appointmentID, err := i.store.CreateAppointment(ctx, patientName, doctorName, appointmentTime,
		"Booked via voice command: "+command)
	if err != nil {
		i.log.WithError(err).Error("Failed to book appointment")
		return "Sorry, I couldn't book the appointment. Please try again with more specific details.", nil
	}

	response := fmt.Sprintf("Appointment booked successfully for %s with %s on %s. Appointment ID: %s",
		patientName, doctorName, appointmentTime.Format(displayTimeFormat), appointmentID)

	return response, BookingData{
		AppointmentID:   appointmentID,
		PatientName:     patientName,
		DoctorName:      doctorName,
		AppointmentTime: appointmentTime.Format(time.RFC3339),
	}
}

func (i *Interpreter) handleQueryPatient(ctx context.Context, entities QueryPatientEntities) (string, interface{}) {
	if entities.PatientName == "" {
		return "Please specify which patient you'd like information about.", nil
	}

	record, err := i.directory.GetPatientInfo(ctx, entities.PatientName)
	if errors.Is(err, ErrPatientNotFound) {
		return fmt.Sprintf("Patient %s not found", titleCase(entities.PatientName)), nil
	}
	if err != nil {
		i.log.WithError(err).Error("Failed to query patient")
		return "Sorry, I couldn't retrieve the patient information.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s\n", record.Name)
	if record.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", record.Phone)
	}
	if len(record.RecentVisits) > 0 {
		lastVisit := record.RecentVisits[0]
		fmt.Fprintf(&b, "Last visit: %s with %s\n", lastVisit.Date.Format("2006-01-02"), lastVisit.DoctorName)
		if lastVisit.Diagnosis != "" {
			fmt.Fprintf(&b, "Diagnosis: %s\n", lastVisit.Diagnosis)
		}
	}
	if len(record.UpcomingAppointments) > 0 {
		next := record.UpcomingAppointments[0]
		fmt.Fprintf(&b, "Next appointment: %s with %s", next.Time.Format(displayTimeFormat), next.DoctorName)
	}

	return b.String(), record
}

func (i *Interpreter) handleViewAppointments(ctx context.Context) (string, interface{}) {
	appointments, err := i.store.GetAppointments(ctx)
	if err != nil {
		i.log.WithError(err).Error("Failed to fetch appointments")
		return "Sorry, I couldn't retrieve the appointments.", nil
	}

	if len(appointments) == 0 {
		return "No appointments scheduled.", []Appointment{}
	}

	now := i.now()
	upcoming := make([]Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if appointment.Time.After(now) {
			upcoming = append(upcoming, appointment)
		}
	}
	sort.Slice(upcoming, func(a, b int) bool {
		return upcoming[a].Time.Before(upcoming[b].Time)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d upcoming appointments:\n", len(upcoming))
	for idx, appointment := range upcoming {
		if idx == 5 {
			break
		}
		fmt.Fprintf(&b, "- %s with %s on %s\n",
			appointment.PatientName, appointment.DoctorName, appointment.Time.Format(displayTimeFormat))
	}

	return b.String(), upcoming
}

func (i *Interpreter) handleViewPatients(ctx context.Context) (string, interface{}) {
	patients, err := i.directory.GetAllPatients(ctx)
	if err != nil {
		i.log.WithError(err).Error("Failed to fetch patients")
		return "Sorry, I couldn't retrieve the patient list.", nil
	}

	if len(patients) == 0 {
		return "No patients in the database.", []Patient{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d patients registered:\n", len(patients))
	for idx, patient := range patients {
		if idx == 10 {
			break
		}
		b.WriteString("- " + patient.Name)
		if patient.Phone != "" {
			b.WriteString(" (" + patient.Phone + ")")
		}
		b.WriteString("\n")
	}

	return b.String(), patients
}

// record forwards the outcome to the interaction logger without blocking the
// caller. Logging failures are swallowed and only surfaced through the
// application log.
func (i *Interpreter) record(transcript string, outcome Outcome) {
	go func() {
		defer func() {
			_ = recover()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := i.interactions.Log(ctx, transcript, outcome.Intent, outcome.Response, outcome.Confidence); err != nil {
			i.log.WithError(err).Warn("Voice interaction log dropped")
		}
	}()
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
