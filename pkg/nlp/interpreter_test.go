package nlp

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	appointments []Appointment
	created      []Appointment
	nextID       string
	createErr    error
	listErr      error
}

func (f *fakeStore) CreateAppointment(ctx context.Context, patientName, doctorName string, at time.Time, notes string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, Appointment{
		ID:          f.nextID,
		PatientName: patientName,
		DoctorName:  doctorName,
		Time:        at,
		Notes:       notes,
	})
	return f.nextID, nil
}

func (f *fakeStore) GetAppointments(ctx context.Context) ([]Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.appointments, nil
}

type fakeDirectory struct {
	records  map[string]PatientRecord
	patients []Patient
	listErr  error
}

func (f *fakeDirectory) GetPatientInfo(ctx context.Context, nameFragment string) (PatientRecord, error) {
	record, ok := f.records[nameFragment]
	if !ok {
		return PatientRecord{}, ErrPatientNotFound
	}
	return record, nil
}

func (f *fakeDirectory) GetAllPatients(ctx context.Context) ([]Patient, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.patients, nil
}

type loggedInteraction struct {
	transcript string
	intent     string
	response   string
	confidence float64
}

type fakeRecorder struct {
	logged chan loggedInteraction
	err    error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{logged: make(chan loggedInteraction, 8)}
}

func (f *fakeRecorder) Log(ctx context.Context, transcript, intent, response string, confidence float64) error {
	f.logged <- loggedInteraction{transcript, intent, response, confidence}
	return f.err
}

func (f *fakeRecorder) wait(t *testing.T) loggedInteraction {
	t.Helper()
	select {
	case interaction := <-f.logged:
		return interaction
	case <-time.After(2 * time.Second):
		t.Fatal("interaction was never recorded")
		return loggedInteraction{}
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
}

func newTestInterpreter(store *fakeStore, directory *fakeDirectory, recorder *fakeRecorder) *Interpreter {
	return NewInterpreter(quietLogger(), store, directory, recorder, WithClock(fixedClock))
}

func TestInterpretBooking(t *testing.T) {
	store := &fakeStore{nextID: "01TESTULID"}
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(store, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "Book an appointment for John Doe at 3 PM tomorrow")

	require.Equal(t, IntentBookAppointment, outcome.Intent)
	require.Contains(t, outcome.Response, "Appointment booked successfully for John Doe with Dr. Smith")
	require.Contains(t, outcome.Response, "2024-01-02 at 03:00 PM")
	require.Contains(t, outcome.Response, "01TESTULID")

	require.Len(t, store.created, 1)
	created := store.created[0]
	require.Equal(t, "John Doe", created.PatientName)
	require.Equal(t, "Dr. Smith", created.DoctorName)
	require.Equal(t, time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC), created.Time)
	require.Contains(t, created.Notes, "Booked via voice command:")

	data, ok := outcome.Data.(BookingData)
	require.True(t, ok)
	require.Equal(t, "01TESTULID", data.AppointmentID)
	require.Equal(t, "John Doe", data.PatientName)
	require.Equal(t, "2024-01-02T15:00:00Z", data.AppointmentTime)

	logged := recorder.wait(t)
	require.Equal(t, IntentBookAppointment, logged.intent)
	require.Equal(t, "Book an appointment for John Doe at 3 PM tomorrow", logged.transcript)
}

func TestInterpretBookingAsksForName(t *testing.T) {
	store := &fakeStore{nextID: "01TESTULID"}
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(store, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "book an appointment")

	require.Equal(t, IntentBookAppointment, outcome.Intent)
	require.Contains(t, outcome.Response, "I need a patient name")
	require.Empty(t, store.created)
	recorder.wait(t)
}

func TestInterpretBookingStoreFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db down")}
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(store, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "Book an appointment for John Doe at 3 PM tomorrow")

	require.Equal(t, IntentBookAppointment, outcome.Intent)
	require.Contains(t, outcome.Response, "couldn't book the appointment")
	require.Nil(t, outcome.Data)
	recorder.wait(t)
}

func TestInterpretQueryPatient(t *testing.T) {
	directory := &fakeDirectory{records: map[string]PatientRecord{
		"ahmed raza": {
			Patient: Patient{ID: "p1", Name: "Ahmed Raza", Phone: "555-0100"},
			RecentVisits: []Visit{
				{Date: time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), DoctorName: "Dr. Khan", Diagnosis: "Flu"},
			},
			UpcomingAppointments: []Appointment{
				{Time: time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC), DoctorName: "Dr. Khan"},
			},
		},
	}}
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(&fakeStore{}, directory, recorder)

	outcome := interpreter.Interpret(context.Background(), "Show last visit for Ahmed Raza")

	require.Equal(t, IntentQueryPatient, outcome.Intent)
	require.Equal(t, 1.0, outcome.Confidence)
	require.Contains(t, outcome.Response, "Patient: Ahmed Raza")
	require.Contains(t, outcome.Response, "Phone: 555-0100")
	require.Contains(t, outcome.Response, "Last visit: 2023-12-15 with Dr. Khan")
	require.Contains(t, outcome.Response, "Diagnosis: Flu")
	require.Contains(t, outcome.Response, "Next appointment:")

	record, ok := outcome.Data.(PatientRecord)
	require.True(t, ok)
	require.Equal(t, "Ahmed Raza", record.Name)
	recorder.wait(t)
}

func TestInterpretQueryPatientNotFound(t *testing.T) {
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(&fakeStore{}, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "Show last visit for Ahmed Raza")

	require.Equal(t, IntentQueryPatient, outcome.Intent)
	require.Equal(t, "Patient Ahmed Raza not found", outcome.Response)
	require.Nil(t, outcome.Data)
	recorder.wait(t)
}

func TestInterpretViewAppointments(t *testing.T) {
	now := fixedClock()
	store := &fakeStore{appointments: []Appointment{
		{ID: "a3", PatientName: "Late", DoctorName: "Dr. A", Time: now.Add(2 * time.Hour)},
		{ID: "a1", PatientName: "Past", DoctorName: "Dr. B", Time: now.Add(-time.Hour)},
		{ID: "a2", PatientName: "Soon", DoctorName: "Dr. C", Time: now.Add(time.Hour)},
	}}
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(store, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "Show today's appointments")

	require.Equal(t, IntentViewAppointments, outcome.Intent)
	require.Contains(t, outcome.Response, "You have 2 upcoming appointments:")

	upcoming, ok := outcome.Data.([]Appointment)
	require.True(t, ok)
	require.Len(t, upcoming, 2)
	require.Equal(t, "a2", upcoming[0].ID)
	require.Equal(t, "a3", upcoming[1].ID)
	recorder.wait(t)
}

func TestInterpretViewAppointmentsEmpty(t *testing.T) {
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(&fakeStore{}, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "list all appointments")

	require.Equal(t, IntentViewAppointments, outcome.Intent)
	require.Equal(t, "No appointments scheduled.", outcome.Response)

	upcoming, ok := outcome.Data.([]Appointment)
	require.True(t, ok)
	require.Empty(t, upcoming)
	recorder.wait(t)
}

func TestInterpretViewPatients(t *testing.T) {
	directory := &fakeDirectory{patients: []Patient{
		{ID: "p1", Name: "Ahmed Raza", Phone: "555-0100"},
		{ID: "p2", Name: "John Doe"},
	}}
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(&fakeStore{}, directory, recorder)

	outcome := interpreter.Interpret(context.Background(), "Show all patients")

	require.Equal(t, IntentViewPatients, outcome.Intent)
	require.Contains(t, outcome.Response, "You have 2 patients registered:")
	require.Contains(t, outcome.Response, "- Ahmed Raza (555-0100)")
	require.Contains(t, outcome.Response, "- John Doe")

	patients, ok := outcome.Data.([]Patient)
	require.True(t, ok)
	require.Len(t, patients, 2)
	recorder.wait(t)
}

func TestInterpretGreetingAndHelp(t *testing.T) {
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(&fakeStore{}, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "hello")
	require.Equal(t, IntentGreeting, outcome.Intent)
	require.Equal(t, greetingResponse, outcome.Response)
	require.Equal(t, 1.0, outcome.Confidence)
	recorder.wait(t)

	outcome = interpreter.Interpret(context.Background(), "what can you do")
	require.Equal(t, IntentHelp, outcome.Intent)
	require.Equal(t, helpResponse, outcome.Response)
	recorder.wait(t)
}

func TestInterpretUnknown(t *testing.T) {
	recorder := newFakeRecorder()
	interpreter := newTestInterpreter(&fakeStore{}, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "the weather is nice")

	require.Equal(t, IntentUnknown, outcome.Intent)
	require.Equal(t, fallbackResponse, outcome.Response)
	require.Zero(t, outcome.Confidence)

	logged := recorder.wait(t)
	require.Equal(t, IntentUnknown, logged.intent)
}

func TestInterpretRecorderFailureIsSwallowed(t *testing.T) {
	recorder := newFakeRecorder()
	recorder.err = errors.New("insert failed")
	interpreter := newTestInterpreter(&fakeStore{nextID: "01TESTULID"}, &fakeDirectory{}, recorder)

	outcome := interpreter.Interpret(context.Background(), "hello")
	require.Equal(t, IntentGreeting, outcome.Intent)
	recorder.wait(t)
}
