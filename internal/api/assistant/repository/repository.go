package assistantRepository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/haa1117/AI-Voice-Assistant/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Appointments: &appointmentRepository{q: sqlExecutor, log: r.log},
		Patients:     &patientRepository{q: sqlExecutor, log: r.log},
		Interactions: &interactionRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Appointments interface {
		CreateAppointment(ctx context.Context, appointment entity.Appointment) error
		GetAppointments(ctx context.Context) ([]entity.Appointment, error)
		GetUpcomingByPatient(ctx context.Context, nameFragment string, after time.Time) ([]entity.Appointment, error)
	}

	Patients interface {
		GetPatientByName(ctx context.Context, nameFragment string) (entity.Patient, error)
		GetAllPatients(ctx context.Context) ([]entity.Patient, error)
		GetRecentVisits(ctx context.Context, nameFragment string, limit int) ([]entity.Visit, error)
	}

	Interactions interface {
		CreateInteraction(ctx context.Context, interaction entity.VoiceInteraction) error
		GetInteractions(ctx context.Context, limit, offset int) ([]entity.VoiceInteraction, int, error)
	}

	Commit   func() error
	Rollback func() error
}

type appointmentRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type patientRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type interactionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
