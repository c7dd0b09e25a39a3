package assistantService

import (
	"context"
	"database/sql"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	assistantRepository "github.com/haa1117/AI-Voice-Assistant/internal/api/assistant/repository"
	"github.com/haa1117/AI-Voice-Assistant/internal/entity"
	cachePkg "github.com/haa1117/AI-Voice-Assistant/pkg/cache"
	"github.com/haa1117/AI-Voice-Assistant/pkg/nlp"
	utilsPkg "github.com/haa1117/AI-Voice-Assistant/pkg/utils"
)

const (
	patientCacheKeyPrefix = "assistx:patient:"
	patientCacheTTL       = 5 * time.Minute
	recentVisitLimit      = 5
	statusScheduled       = "scheduled"
)

// schedulingStore backs the interpreter's SchedulingStore collaborator with
// the appointments table.
type schedulingStore struct {
	log   *logrus.Logger
	repo  assistantRepository.Repository
	utils utilsPkg.IUtils
}

func (s *schedulingStore) CreateAppointment(ctx context.Context, patientName, doctorName string, at time.Time, notes string) (string, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return "", err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return "", err
	}

	appointment := entity.Appointment{
		ID:              id,
		PatientName:     patientName,
		DoctorName:      doctorName,
		AppointmentTime: at,
		Notes:           notes,
		Status:          statusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := client.Appointments.CreateAppointment(ctx, appointment); err != nil {
		return "", err
	}

	return id, nil
}

func (s *schedulingStore) GetAppointments(ctx context.Context) ([]nlp.Appointment, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	appointments, err := client.Appointments.GetAppointments(ctx)
	if err != nil {
		return nil, err
	}

	return toNLPAppointments(appointments), nil
}

// patientDirectory backs the interpreter's PatientDirectory collaborator.
// Lookups are cached briefly; cache failures fall through to the database.
type patientDirectory struct {
	log   *logrus.Logger
	repo  assistantRepository.Repository
	cache cachePkg.ICache
	now   func() time.Time
}

func (d *patientDirectory) GetPatientInfo(ctx context.Context, nameFragment string) (nlp.PatientRecord, error) {
	cacheKey := patientCacheKeyPrefix + nameFragment

	if d.cache != nil {
		if raw, err := d.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var record nlp.PatientRecord
			if err := jsoniter.UnmarshalFromString(raw, &record); err == nil {
				return record, nil
			}
		}
	}

	client, err := d.repo.NewClient(false)
	if err != nil {
		return nlp.PatientRecord{}, err
	}

	patient, err := client.Patients.GetPatientByName(ctx, nameFragment)
	if errors.Is(err, sql.ErrNoRows) {
		return nlp.PatientRecord{}, nlp.ErrPatientNotFound
	}
	if err != nil {
		return nlp.PatientRecord{}, err
	}

	visits, err := client.Patients.GetRecentVisits(ctx, nameFragment, recentVisitLimit)
	if err != nil {
		return nlp.PatientRecord{}, err
	}

	upcoming, err := client.Appointments.GetUpcomingByPatient(ctx, nameFragment, d.now())
	if err != nil {
		return nlp.PatientRecord{}, err
	}

	record := nlp.PatientRecord{
		Patient: nlp.Patient{
			ID:    patient.ID,
			Name:  patient.Name,
			Phone: patient.Phone,
			Email: patient.Email,
		},
		RecentVisits:         toNLPVisits(visits),
		UpcomingAppointments: toNLPAppointments(upcoming),
	}

	if d.cache != nil {
		if raw, err := jsoniter.MarshalToString(record); err == nil {
			if err := d.cache.Set(ctx, cacheKey, raw, patientCacheTTL); err != nil {
				d.log.WithError(err).Debug("Patient cache write skipped")
			}
		}
	}

	return record, nil
}

func (d *patientDirectory) GetAllPatients(ctx context.Context) ([]nlp.Patient, error) {
	client, err := d.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	patients, err := client.Patients.GetAllPatients(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]nlp.Patient, 0, len(patients))
	for _, patient := range patients {
		result = append(result, nlp.Patient{
			ID:    patient.ID,
			Name:  patient.Name,
			Phone: patient.Phone,
			Email: patient.Email,
		})
	}

	return result, nil
}

// interactionRecorder backs the interpreter's fire-and-forget logger.
type interactionRecorder struct {
	log   *logrus.Logger
	repo  assistantRepository.Repository
	utils utilsPkg.IUtils
}

func (r *interactionRecorder) Log(ctx context.Context, transcript, intent, response string, confidence float64) error {
	client, err := r.repo.NewClient(false)
	if err != nil {
		return err
	}

	now := time.Now()
	id, err := r.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return err
	}

	return client.Interactions.CreateInteraction(ctx, entity.VoiceInteraction{
		ID:          id,
		Transcript:  transcript,
		CommandType: intent,
		Response:    response,
		Confidence:  confidence,
		CreatedAt:   now,
	})
}

func toNLPAppointments(appointments []entity.Appointment) []nlp.Appointment {
	result := make([]nlp.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, nlp.Appointment{
			ID:          appointment.ID,
			PatientName: appointment.PatientName,
			DoctorName:  appointment.DoctorName,
			Time:        appointment.AppointmentTime,
			Notes:       appointment.Notes,
		})
	}
	return result
}

func toNLPVisits(visits []entity.Visit) []nlp.Visit {
	result := make([]nlp.Visit, 0, len(visits))
	for _, visit := range visits {
		result = append(result, nlp.Visit{
			Date:       visit.VisitDate,
			DoctorName: visit.DoctorName,
			Diagnosis:  visit.Diagnosis,
		})
	}
	return result
}
