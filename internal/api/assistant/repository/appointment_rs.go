package assistantRepository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/haa1117/AI-Voice-Assistant/internal/entity"
	contextPkg "github.com/haa1117/AI-Voice-Assistant/pkg/context"
)

type AppointmentDB struct {
	ID              sql.NullString `db:"id"`
	PatientName     sql.NullString `db:"patient_name"`
	DoctorName      sql.NullString `db:"doctor_name"`
	AppointmentTime time.Time      `db:"appointment_time"`
	Notes           sql.NullString `db:"notes"`
	Status          sql.NullString `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (a AppointmentDB) toEntity() entity.Appointment {
	return entity.Appointment{
		ID:              a.ID.String,
		PatientName:     a.PatientName.String,
		DoctorName:      a.DoctorName.String,
		AppointmentTime: a.AppointmentTime,
		Notes:           a.Notes.String,
		Status:          a.Status.String,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (r *appointmentRepository) CreateAppointment(ctx context.Context, appointment entity.Appointment) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":               appointment.ID,
		"patient_name":     appointment.PatientName,
		"doctor_name":      appointment.DoctorName,
		"appointment_time": appointment.AppointmentTime,
		"notes":            appointment.Notes,
		"status":           appointment.Status,
		"created_at":       appointment.CreatedAt,
		"updated_at":       appointment.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateAppointment, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build create appointment query")
		return err
	}

	query = r.q.Rebind(query)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"error":        err.Error(),
			"patient_name": appointment.PatientName,
		}).Error("Failed to insert appointment")
		return err
	}

	return nil
}

func (r *appointmentRepository) GetAppointments(ctx context.Context) ([]entity.Appointment, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []AppointmentDB
	if err := r.q.SelectContext(ctx, &rows, queryGetAppointments); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to fetch appointments")
		return nil, err
	}

	appointments := make([]entity.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toEntity())
	}

	return appointments, nil
}

func (r *appointmentRepository) GetUpcomingByPatient(ctx context.Context, nameFragment string, after time.Time) ([]entity.Appointment, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"patient_name": "%" + nameFragment + "%",
		"after":        after,
	}

	query, args, err := sqlx.Named(queryGetUpcomingAppointmentsByPatient, argsKV)
	if err != nil {
		return nil, err
	}

	var rows []AppointmentDB
	query = r.q.Rebind(query)
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to fetch upcoming appointments")
		return nil, err
	}

	appointments := make([]entity.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toEntity())
	}

	return appointments, nil
}
