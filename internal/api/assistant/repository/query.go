package assistantRepository

const (
	queryCreateAppointment = `
		INSERT INTO appointments (
			id, patient_name, doctor_name, appointment_time,
			notes, status, created_at, updated_at
		) VALUES (
			:id, :patient_name, :doctor_name, :appointment_time,
			:notes, :status, :created_at, :updated_at
		)
	`

	queryGetAppointments = `
		SELECT
			id, patient_name, doctor_name, appointment_time,
			notes, status, created_at, updated_at
		FROM appointments
		ORDER BY appointment_time ASC
	`

	queryGetUpcomingAppointmentsByPatient = `
		SELECT
			id, patient_name, doctor_name, appointment_time,
			notes, status, created_at, updated_at
		FROM appointments
		WHERE patient_name ILIKE :patient_name
		AND appointment_time > :after
		ORDER BY appointment_time ASC
	`

	queryGetPatientByName = `
		SELECT
			id, name, phone, email, date_of_birth,
			medical_history, created_at, updated_at
		FROM patients
		WHERE name ILIKE :name
		ORDER BY name ASC
		LIMIT 1
	`

	queryGetAllPatients = `
		SELECT
			id, name, phone, email, date_of_birth,
			medical_history, created_at, updated_at
		FROM patients
		ORDER BY name ASC
	`

	queryGetRecentVisitsByPatient = `
		SELECT
			id, patient_name, doctor_name, visit_date,
			diagnosis, treatment, notes, created_at
		FROM visits
		WHERE patient_name ILIKE :patient_name
		ORDER BY visit_date DESC
		LIMIT :limit
	`

	queryCreateInteraction = `
		INSERT INTO voice_interactions (
			id, transcript, command_type, response, confidence, created_at
		) VALUES (
			:id, :transcript, :command_type, :response, :confidence, :created_at
		)
	`

	queryGetInteractions = `
		SELECT
			id, transcript, command_type, response, confidence, created_at
		FROM voice_interactions
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountInteractions = `
		SELECT COUNT(*)
		FROM voice_interactions
	`
)
