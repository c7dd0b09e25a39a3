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

type PatientDB struct {
	ID             sql.NullString `db:"id"`
	Name           sql.NullString `db:"name"`
	Phone          sql.NullString `db:"phone"`
	Email          sql.NullString `db:"email"`
	DateOfBirth    sql.NullTime   `db:"date_of_birth"`
	MedicalHistory sql.NullString `db:"medical_history"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (p PatientDB) toEntity() entity.Patient {
	patient := entity.Patient{
		ID:             p.ID.String,
		Name:           p.Name.String,
		Phone:          p.Phone.String,
		Email:          p.Email.String,
		MedicalHistory: p.MedicalHistory.String,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.DateOfBirth.Valid {
		dob := p.DateOfBirth.Time
		patient.DateOfBirth = &dob
	}
	return patient
}

type VisitDB struct {
	ID          sql.NullString `db:"id"`
	PatientName sql.NullString `db:"patient_name"`
	DoctorName  sql.NullString `db:"doctor_name"`
	VisitDate   time.Time      `db:"visit_date"`
	Diagnosis   sql.NullString `db:"diagnosis"`
	Treatment   sql.NullString `db:"treatment"`
	Notes       sql.NullString `db:"notes"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (v VisitDB) toEntity() entity.Visit {
	return entity.Visit{
		ID:          v.ID.String,
		PatientName: v.PatientName.String,
		DoctorName:  v.DoctorName.String,
		VisitDate:   v.VisitDate,
		Diagnosis:   v.Diagnosis.String,
		Treatment:   v.Treatment.String,
		Notes:       v.Notes.String,
		CreatedAt:   v.CreatedAt,
	}
}

// GetPatientByName matches a case-insensitive name fragment and returns
// sql.ErrNoRows when no patient matches.
func (r *patientRepository) GetPatientByName(ctx context.Context, nameFragment string) (entity.Patient, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"name": "%" + nameFragment + "%",
	}

	query, args, err := sqlx.Named(queryGetPatientByName, argsKV)
	if err != nil {
		return entity.Patient{}, err
	}

	var row PatientDB
	query = r.q.Rebind(query)
	if err := r.q.GetContext(ctx, &row, query, args...); err != nil {
		if err != sql.ErrNoRows {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to fetch patient")
		}
		return entity.Patient{}, err
	}

	return row.toEntity(), nil
}

func (r *patientRepository) GetAllPatients(ctx context.Context) ([]entity.Patient, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []PatientDB
	if err := r.q.SelectContext(ctx, &rows, queryGetAllPatients); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to fetch patients")
		return nil, err
	}

	patients := make([]entity.Patient, 0, len(rows))
	for _, row := range rows {
		patients = append(patients, row.toEntity())
	}

	return patients, nil
}

func (r *patientRepository) GetRecentVisits(ctx context.Context, nameFragment string, limit int) ([]entity.Visit, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"patient_name": "%" + nameFragment + "%",
		"limit":        limit,
	}

	query, args, err := sqlx.Named(queryGetRecentVisitsByPatient, argsKV)
	if err != nil {
		return nil, err
	}

	var rows []VisitDB
	query = r.q.Rebind(query)
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to fetch visits")
		return nil, err
	}

	visits := make([]entity.Visit, 0, len(rows))
	for _, row := range rows {
		visits = append(visits, row.toEntity())
	}

	return visits, nil
}
