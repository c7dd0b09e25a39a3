package assistantService

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/haa1117/AI-Voice-Assistant/internal/api/assistant"
	"github.com/haa1117/AI-Voice-Assistant/internal/entity"
	"github.com/haa1117/AI-Voice-Assistant/pkg/log"
	"github.com/haa1117/AI-Voice-Assistant/pkg/nlp"
)

// ProcessCommand runs one transcript through the interpretation engine and
// optionally synthesizes a spoken response.
func (s *assistantService) ProcessCommand(ctx context.Context, req assistant.CommandRequest) (*assistant.CommandResponse, error) {
	outcome := s.interpreter.Interpret(ctx, req.Text)

	response := &assistant.CommandResponse{
		Command:    req.Text,
		Intent:     outcome.Intent,
		Response:   outcome.Response,
		Data:       outcome.Data,
		Confidence: outcome.Confidence,
		Timestamp:  time.Now(),
	}

	if req.GenerateAudio && s.synthesizer != nil {
		audioURL, err := s.synthesizeResponse(outcome.Response)
		if err != nil {
			s.log.WithFields(log.Fields{
				"error":  err.Error(),
				"intent": outcome.Intent,
			}).Warn("Speech synthesis skipped")
		} else {
			response.AudioURL = audioURL
		}
	}

	return response, nil
}

func (s *assistantService) synthesizeResponse(text string) (string, error) {
	data, err := s.synthesizer.GenerateAudio(text)
	if err != nil {
		return "", err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", err
	}

	filename := "response-" + id + ".mp3"
	if err := os.WriteFile(filepath.Join(s.audioDir, filename), data, 0o644); err != nil {
		return "", err
	}

	return "/api/v1/assistant/audio/" + filename, nil
}

func (s *assistantService) TranscribeAudio(ctx context.Context, file *multipart.FileHeader) (*assistant.TranscriptionResponse, error) {
	if file == nil {
		return nil, assistant.ErrInvalidAudioFile
	}

	src, err := file.Open()
	if err != nil {
		return nil, assistant.ErrInvalidAudioFile
	}
	defer src.Close()

	transcript, err := s.transcriber.Transcribe(ctx, file.Filename, src)
	if err != nil {
		s.log.WithField("error", err.Error()).Error("Audio transcription failed")
		return nil, assistant.ErrTranscriptionFailed
	}

	return &assistant.TranscriptionResponse{
		Transcription: transcript,
		Timestamp:     time.Now(),
	}, nil
}

func (s *assistantService) ServeAudioFile(ctx context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.audioDir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return nil, assistant.ErrAudioNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *assistantService) GetInteractionHistory(ctx context.Context, page, limit int) ([]assistant.InteractionHistory, int, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	interactions, total, err := client.Interactions.GetInteractions(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	history := make([]assistant.InteractionHistory, 0, len(interactions))
	for _, interaction := range interactions {
		history = append(history, assistant.InteractionHistory{
			ID:         interaction.ID,
			Transcript: interaction.Transcript,
			Intent:     interaction.CommandType,
			Response:   interaction.Response,
			Confidence: interaction.Confidence,
			CreatedAt:  interaction.CreatedAt,
		})
	}

	return history, total, nil
}

func (s *assistantService) CreateAppointment(ctx context.Context, req assistant.AppointmentRequest) (*assistant.AppointmentResponse, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return nil, err
	}

	appointment := entity.Appointment{
		ID:              id,
		PatientName:     req.PatientName,
		DoctorName:      req.DoctorName,
		AppointmentTime: req.AppointmentTime,
		Notes:           req.Notes,
		Status:          statusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := client.Appointments.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	return toAppointmentResponse(appointment), nil
}

func (s *assistantService) GetAppointments(ctx context.Context) ([]assistant.AppointmentResponse, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	appointments, err := client.Appointments.GetAppointments(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]assistant.AppointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		responses = append(responses, *toAppointmentResponse(appointment))
	}

	return responses, nil
}

func (s *assistantService) QueryPatient(ctx context.Context, req assistant.PatientQueryRequest) (*assistant.PatientInfoResponse, error) {
	record, err := s.directory.GetPatientInfo(ctx, req.PatientName)
	if errors.Is(err, nlp.ErrPatientNotFound) {
		return nil, assistant.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	info := &assistant.PatientInfoResponse{
		PatientSummary: assistant.PatientSummary{
			ID:    record.ID,
			Name:  record.Name,
			Phone: record.Phone,
			Email: record.Email,
		},
		RecentVisits:         make([]assistant.VisitSummary, 0, len(record.RecentVisits)),
		UpcomingAppointments: make([]assistant.AppointmentResponse, 0, len(record.UpcomingAppointments)),
	}

	for _, visit := range record.RecentVisits {
		info.RecentVisits = append(info.RecentVisits, assistant.VisitSummary{
			VisitDate:  visit.Date,
			DoctorName: visit.DoctorName,
			Diagnosis:  visit.Diagnosis,
		})
	}

	for _, appointment := range record.UpcomingAppointments {
		info.UpcomingAppointments = append(info.UpcomingAppointments, assistant.AppointmentResponse{
			ID:              appointment.ID,
			PatientName:     appointment.PatientName,
			DoctorName:      appointment.DoctorName,
			AppointmentTime: appointment.Time,
			Notes:           appointment.Notes,
			Status:          statusScheduled,
		})
	}

	return info, nil
}

func (s *assistantService) GetAllPatients(ctx context.Context) ([]assistant.PatientSummary, error) {
	patients, err := s.directory.GetAllPatients(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]assistant.PatientSummary, 0, len(patients))
	for _, patient := range patients {
		summaries = append(summaries, assistant.PatientSummary{
			ID:    patient.ID,
			Name:  patient.Name,
			Phone: patient.Phone,
			Email: patient.Email,
		})
	}

	return summaries, nil
}

func toAppointmentResponse(appointment entity.Appointment) *assistant.AppointmentResponse {
	return &assistant.AppointmentResponse{
		ID:              appointment.ID,
		PatientName:     appointment.PatientName,
		DoctorName:      appointment.DoctorName,
		AppointmentTime: appointment.AppointmentTime,
		Notes:           appointment.Notes,
		Status:          appointment.Status,
	}
}
