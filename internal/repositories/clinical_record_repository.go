package repositories

import (
	"database/sql"
	"fmt"

	"vetclinic/internal/models"
)

type ClinicalRecordRepository interface {
	Create(rec *models.ClinicalRecord) error
	GetByID(id int) (*models.ClinicalRecord, error)
	Update(rec *models.ClinicalRecord) error
	// хронология по приёму, от старых к новым
	ListByAppointment(appointmentID int) ([]*models.ClinicalRecord, error)
}

type clinicalRecordRepository struct {
	DB *sql.DB
}

func NewClinicalRecordRepository(db *sql.DB) ClinicalRecordRepository {
	return &clinicalRecordRepository{DB: db}
}

const recordColumns = `
	id, appointment_id, symptoms, temperature, weight, heart_rate,
	diagnosis, treatment, vaccine_name, vaccine_batch, notes,
	created_at, updated_at
`

func scanRecord(row interface{ Scan(...any) error }) (*models.ClinicalRecord, error) {
	rec := &models.ClinicalRecord{}
	err := row.Scan(
		&rec.ID, &rec.AppointmentID, &rec.Symptoms,
		&rec.Temperature, &rec.Weight, &rec.HeartRate,
		&rec.Diagnosis, &rec.Treatment,
		&rec.VaccineName, &rec.VaccineBatch, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *clinicalRecordRepository) Create(rec *models.ClinicalRecord) error {
	const q = `
		INSERT INTO clinical_records (
			appointment_id, symptoms, temperature, weight, heart_rate,
			diagnosis, treatment, vaccine_name, vaccine_batch, notes
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		rec.AppointmentID, rec.Symptoms, rec.Temperature, rec.Weight, rec.HeartRate,
		rec.Diagnosis, rec.Treatment, rec.VaccineName, rec.VaccineBatch, rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("clinical record create: %w", err)
	}
	return nil
}

func (r *clinicalRecordRepository) GetByID(id int) (*models.ClinicalRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM clinical_records WHERE id = $1`
	rec, err := scanRecord(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinical record by id: %w", err)
	}
	return rec, nil
}

func (r *clinicalRecordRepository) Update(rec *models.ClinicalRecord) error {
	const q = `
		UPDATE clinical_records
		SET symptoms=$1, temperature=$2, weight=$3, heart_rate=$4,
		    diagnosis=$5, treatment=$6, vaccine_name=$7, vaccine_batch=$8, notes=$9,
		    updated_at=NOW()
		WHERE id=$10
	`
	if _, err := r.DB.Exec(q,
		rec.Symptoms, rec.Temperature, rec.Weight, rec.HeartRate,
		rec.Diagnosis, rec.Treatment, rec.VaccineName, rec.VaccineBatch, rec.Notes,
		rec.ID,
	); err != nil {
		return fmt.Errorf("clinical record update: %w", err)
	}
	return nil
}

func (r *clinicalRecordRepository) ListByAppointment(appointmentID int) ([]*models.ClinicalRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM clinical_records WHERE appointment_id=$1 ORDER BY created_at`
	rows, err := r.DB.Query(q, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("clinical record list: %w", err)
	}
	defer rows.Close()

	var out []*models.ClinicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("clinical record list scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
