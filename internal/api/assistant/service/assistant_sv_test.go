package assistantService

import (
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/haa1117/AI-Voice-Assistant/internal/api/assistant"
	assistantRepository "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/repository"
	"github.com/haa1117/AI-Voice-Assistant/internal/entity"
	"github.com/haa1117/AI-Voice-Assistant/pkg/nlp"
	utilsPkg "github.com/haa1117/AI-Voice-Assistant/pkg/utils"
)

type fakeAppointments struct {
	stored []entity.Appointment
}

func (f *fakeAppointments) CreateAppointment(ctx context.Context, appointment entity.Appointment) error {
	f.stored = append(f.stored, appointment)
	return nil
}

func (f *fakeAppointments) GetAppointments(ctx context.Context) ([]entity.Appointment, error) {
	return f.stored, nil
}

func (f *fakeAppointments) GetUpcomingByPatient(ctx context.Context, nameFragment string, after time.Time) ([]entity.Appointment, error) {
	var upcoming []entity.Appointment
	for _, appointment := range f.stored {
		if strings.Contains(strings.ToLower(appointment.PatientName), strings.ToLower(nameFragment)) &&
			appointment.AppointmentTime.After(after) {
			upcoming = append(upcoming, appointment)
		}
	}
	return upcoming, nil
}

type fakePatients struct {
	patients    []entity.Patient
	visits      []entity.Visit
	byNameCalls int
}

func (f *fakePatients) GetPatientByName(ctx context.Context, nameFragment string) (entity.Patient, error) {
	f.byNameCalls++
	for _, patient := range f.patients {
		if strings.Contains(strings.ToLower(patient.Name), strings.ToLower(nameFragment)) {
			return patient, nil
		}
	}
	return entity.Patient{}, sql.ErrNoRows
}

func (f *fakePatients) GetAllPatients(ctx context.Context) ([]entity.Patient, error) {
	return f.patients, nil
}

func (f *fakePatients) GetRecentVisits(ctx context.Context, nameFragment string, limit int) ([]entity.Visit, error) {
	var visits []entity.Visit
	for _, visit := range f.visits {
		if strings.Contains(strings.ToLower(visit.PatientName), strings.ToLower(nameFragment)) {
			visits = append(visits, visit)
		}
		if len(visits) == limit {
			break
		}
	}
	return visits, nil
}

type fakeInteractions struct {
	created chan entity.VoiceInteraction
	limit   int
	offset  int
	history []entity.VoiceInteraction
}

func (f *fakeInteractions) CreateInteraction(ctx context.Context, interaction entity.VoiceInteraction) error {
	f.created <- interaction
	return nil
}

func (f *fakeInteractions) GetInteractions(ctx context.Context, limit, offset int) ([]entity.VoiceInteraction, int, error) {
	f.limit = limit
	f.offset = offset
	return f.history, len(f.history), nil
}

type fakeRepository struct {
	appointments *fakeAppointments
	patients     *fakePatients
	interactions *fakeInteractions
}

func (f *fakeRepository) NewClient(tx bool) (assistantRepository.Client, error) {
	return assistantRepository.Client{
		Appointments: f.appointments,
		Patients:     f.patients,
		Interactions: f.interactions,
		Commit:       func() error { return nil },
		Rollback:     func() error { return nil },
	}, nil
}

type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

type fakeTranscriber struct {
	text string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return f.text, nil
}

func testClock() time.Time {
	return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (IAssistantService, *fakeRepository, *fakeCache) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &fakeRepository{
		appointments: &fakeAppointments{},
		patients:     &fakePatients{},
		interactions: &fakeInteractions{created: make(chan entity.VoiceInteraction, 8)},
	}
	cache := &fakeCache{values: make(map[string]string)}

	service := NewAssistantService(
		logger, repo, cache, &fakeTranscriber{text: "hello"}, nil, utilsPkg.New(),
		nlp.WithClock(testClock),
	)

	return service, repo, cache
}

func waitForInteraction(t *testing.T, repo *fakeRepository) entity.VoiceInteraction {
	t.Helper()
	select {
	case interaction := <-repo.interactions.created:
		return interaction
	case <-time.After(2 * time.Second):
		t.Fatal("interaction was never persisted")
		return entity.VoiceInteraction{}
	}
}

func TestProcessCommandBooking(t *testing.T) {
	service, repo, _ := newTestService(t)

	result, err := service.ProcessCommand(context.Background(),
		assistant.CommandRequest{Text: "Book an appointment for John Doe at 3 PM tomorrow"})
	require.NoError(t, err)

	require.Equal(t, "book_appointment", result.Intent)
	require.Contains(t, result.Response, "Appointment booked successfully for John Doe")
	require.Empty(t, result.AudioURL)

	require.Len(t, repo.appointments.stored, 1)
	stored := repo.appointments.stored[0]
	require.Equal(t, "John Doe", stored.PatientName)
	require.Equal(t, "Dr. Smith", stored.DoctorName)
	require.Equal(t, "scheduled", stored.Status)
	require.Equal(t, time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC), stored.AppointmentTime)
	require.NotEmpty(t, stored.ID)

	logged := waitForInteraction(t, repo)
	require.Equal(t, "book_appointment", logged.CommandType)
	require.Equal(t, "Book an appointment for John Doe at 3 PM tomorrow", logged.Transcript)
	require.NotEmpty(t, logged.ID)
}

func TestProcessCommandViewPatients(t *testing.T) {
	service, repo, _ := newTestService(t)
	repo.patients.patients = []entity.Patient{
		{ID: "p1", Name: "Ahmed Raza", Phone: "555-0100"},
		{ID: "p2", Name: "John Doe"},
	}

	result, err := service.ProcessCommand(context.Background(),
		assistant.CommandRequest{Text: "list all patients"})
	require.NoError(t, err)

	require.Equal(t, "view_patients", result.Intent)
	require.Contains(t, result.Response, "Ahmed Raza")
	require.Contains(t, result.Response, "John Doe")
	waitForInteraction(t, repo)
}

func TestQueryPatientCachesLookups(t *testing.T) {
	service, repo, cache := newTestService(t)
	repo.patients.patients = []entity.Patient{
		{ID: "p1", Name: "Ahmed Raza", Phone: "555-0100"},
	}
	repo.patients.visits = []entity.Visit{
		{PatientName: "Ahmed Raza", DoctorName: "Dr. Khan",
			VisitDate: time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), Diagnosis: "Flu"},
	}

	first, err := service.QueryPatient(context.Background(),
		assistant.PatientQueryRequest{PatientName: "ahmed"})
	require.NoError(t, err)
	require.Equal(t, "Ahmed Raza", first.Name)
	require.Len(t, first.RecentVisits, 1)
	require.Equal(t, "Dr. Khan", first.RecentVisits[0].DoctorName)
	require.Equal(t, 1, repo.patients.byNameCalls)
	require.NotEmpty(t, cache.values)

	second, err := service.QueryPatient(context.Background(),
		assistant.PatientQueryRequest{PatientName: "ahmed"})
	require.NoError(t, err)
	require.Equal(t, "Ahmed Raza", second.Name)
	require.Equal(t, 1, repo.patients.byNameCalls)
}

func TestQueryPatientNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.QueryPatient(context.Background(),
		assistant.PatientQueryRequest{PatientName: "nobody"})
	require.ErrorIs(t, err, assistant.ErrPatientNotFound)
}

func TestCreateAppointmentDirect(t *testing.T) {
	service, repo, _ := newTestService(t)

	at := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	result, err := service.CreateAppointment(context.Background(), assistant.AppointmentRequest{
		PatientName:     "Mary Jones",
		DoctorName:      "Dr. Wilson",
		AppointmentTime: at,
		Notes:           "Follow-up",
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.ID)
	require.Equal(t, "Mary Jones", result.PatientName)
	require.Equal(t, "scheduled", result.Status)
	require.Equal(t, at, result.AppointmentTime)
	require.Len(t, repo.appointments.stored, 1)

	listed, err := service.GetAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, result.ID, listed[0].ID)
}

func TestGetInteractionHistoryPagination(t *testing.T) {
	service, repo, _ := newTestService(t)
	repo.interactions.history = []entity.VoiceInteraction{
		{ID: "i1", Transcript: "hello", CommandType: "greeting", Confidence: 1.0,
			CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}

	history, total, err := service.GetInteractionHistory(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, history, 1)
	require.Equal(t, "greeting", history[0].Intent)
	require.Equal(t, 10, repo.interactions.limit)
	require.Equal(t, 20, repo.interactions.offset)
}

func TestTranscribeAudioRejectsMissingFile(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.TranscribeAudio(context.Background(), nil)
	require.ErrorIs(t, err, assistant.ErrInvalidAudioFile)
}
