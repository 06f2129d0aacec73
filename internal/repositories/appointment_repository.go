package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"vetclinic/internal/models"
)

type AppointmentRepository interface {
	Create(a *models.Appointment) error
	GetByID(id int) (*models.Appointment, error)
	Update(a *models.Appointment) error
	Delete(id int) error
	List(filter models.AppointmentFilter, limit, offset int) ([]*models.Appointment, error)

	UpdateStatus(id int, status string) error
	AssignVeterinarian(id, vetID int) error
	MarkReviewed(id int) error

	// занят ли слот: есть ли не-отменённый приём на точную пару дата+слот
	ExistsAtSlot(date, timeSlot string) (bool, error)
}

type appointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &appointmentRepository{DB: db}
}

const appointmentColumns = `
	id, owner_name, owner_surname, owner_email, owner_phone,
	pet_name, pet_age, pet_species, pet_sex,
	date, time_slot, description,
	status, veterinarian_id, reviewed,
	created_at, updated_at
`

func scanAppointment(row interface{ Scan(...any) error }) (*models.Appointment, error) {
	a := &models.Appointment{}
	var vetID sql.NullInt64
	err := row.Scan(
		&a.ID, &a.OwnerName, &a.OwnerSurname, &a.OwnerEmail, &a.OwnerPhone,
		&a.PetName, &a.PetAge, &a.PetSpecies, &a.PetSex,
		&a.Date, &a.TimeSlot, &a.Description,
		&a.Status, &vetID, &a.Reviewed,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vetID.Valid {
		v := int(vetID.Int64)
		a.VeterinarianID = &v
	}
	return a, nil
}

func (r *appointmentRepository) Create(a *models.Appointment) error {
	const q = `
		INSERT INTO appointments (
			owner_name, owner_surname, owner_email, owner_phone,
			pet_name, pet_age, pet_species, pet_sex,
			date, time_slot, description, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		a.OwnerName, a.OwnerSurname, a.OwnerEmail, a.OwnerPhone,
		a.PetName, a.PetAge, a.PetSpecies, a.PetSex,
		a.Date, a.TimeSlot, a.Description, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("appointment create: %w", err)
	}
	return nil
}

func (r *appointmentRepository) GetByID(id int) (*models.Appointment, error) {
	const q = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("appointment by id: %w", err)
	}
	return a, nil
}

func (r *appointmentRepository) Update(a *models.Appointment) error {
	const q = `
		UPDATE appointments
		SET owner_name=$1, owner_surname=$2, owner_email=$3, owner_phone=$4,
		    pet_name=$5, pet_age=$6, pet_species=$7, pet_sex=$8,
		    date=$9, time_slot=$10, description=$11,
		    updated_at=NOW()
		WHERE id=$12
	`
	if _, err := r.DB.Exec(q,
		a.OwnerName, a.OwnerSurname, a.OwnerEmail, a.OwnerPhone,
		a.PetName, a.PetAge, a.PetSpecies, a.PetSex,
		a.Date, a.TimeSlot, a.Description, a.ID,
	); err != nil {
		return fmt.Errorf("appointment update: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM appointments WHERE id=$1`, id); err != nil {
		return fmt.Errorf("appointment delete: %w", err)
	}
	return nil
}

// List — фильтры собираются динамически, но только из белого списка условий.
func (r *appointmentRepository) List(filter models.AppointmentFilter, limit, offset int) ([]*models.Appointment, error) {
	var conds []string
	var args []any

	add := func(format string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, "$"+strconv.Itoa(len(args))))
	}

	if filter.VeterinarianID != nil {
		add("veterinarian_id = %s", *filter.VeterinarianID)
	}
	if filter.OwnerEmail != "" {
		add("LOWER(owner_email) = LOWER(%s)", filter.OwnerEmail)
	}
	if filter.Status != "" {
		add("status = %s", filter.Status)
	}
	if filter.Reviewed != nil {
		add("reviewed = %s", *filter.Reviewed)
	}

	q := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(" ORDER BY date, time_slot LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("appointment list: %w", err)
	}
	defer rows.Close()

	var out []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointment list scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *appointmentRepository) UpdateStatus(id int, status string) error {
	const q = `UPDATE appointments SET status=$1, updated_at=NOW() WHERE id=$2`
	if _, err := r.DB.Exec(q, status, id); err != nil {
		return fmt.Errorf("appointment update status: %w", err)
	}
	return nil
}

func (r *appointmentRepository) AssignVeterinarian(id, vetID int) error {
	const q = `UPDATE appointments SET veterinarian_id=$1, updated_at=NOW() WHERE id=$2`
	if _, err := r.DB.Exec(q, vetID, id); err != nil {
		return fmt.Errorf("appointment assign vet: %w", err)
	}
	return nil
}

func (r *appointmentRepository) MarkReviewed(id int) error {
	const q = `UPDATE appointments SET reviewed=TRUE, updated_at=NOW() WHERE id=$1`
	if _, err := r.DB.Exec(q, id); err != nil {
		return fmt.Errorf("appointment mark reviewed: %w", err)
	}
	return nil
}

func (r *appointmentRepository) ExistsAtSlot(date, timeSlot string) (bool, error) {
	const q = `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE date=$1 AND time_slot=$2 AND status <> 'cancelled'
		)
	`
	var exists bool
	if err := r.DB.QueryRow(q, date, timeSlot).Scan(&exists); err != nil {
		return false, fmt.Errorf("appointment slot check: %w", err)
	}
	return exists, nil
}
