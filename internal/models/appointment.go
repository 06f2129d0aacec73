package models

import "time"

// Статусы приёма.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Виды и пол животных — закрытые перечисления, валидируются в сервисе.
var (
	PetSpecies = []string{"dog", "cat", "bird", "rabbit", "reptile", "other"}
	PetSexes   = []string{"male", "female"}
)

type Appointment struct {
	ID int `json:"id"`

	// Контакты владельца — снимок на момент записи, не живая ссылка на аккаунт.
	// Правки профиля задним числом историю не меняют.
	OwnerName    string `json:"owner_name"`
	OwnerSurname string `json:"owner_surname"`
	OwnerEmail   string `json:"owner_email"`
	OwnerPhone   string `json:"owner_phone"`

	PetName    string `json:"pet_name"`
	PetAge     int    `json:"pet_age"`
	PetSpecies string `json:"pet_species"`
	PetSex     string `json:"pet_sex"`

	Date        string `json:"date"` // YYYY-MM-DD
	TimeSlot    string `json:"time_slot"`
	Description string `json:"description"`

	Status         string `json:"status"`
	VeterinarianID *int   `json:"veterinarian_id,omitempty"`
	Reviewed       bool   `json:"reviewed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AppointmentRequest struct {
	OwnerName    string `json:"owner_name" binding:"required"`
	OwnerSurname string `json:"owner_surname" binding:"required"`
	OwnerEmail   string `json:"owner_email" binding:"required"`
	OwnerPhone   string `json:"owner_phone"`
	PetName      string `json:"pet_name" binding:"required"`
	PetAge       int    `json:"pet_age"`
	PetSpecies   string `json:"pet_species" binding:"required"`
	PetSex       string `json:"pet_sex" binding:"required"`
	Date         string `json:"date" binding:"required"`
	TimeSlot     string `json:"time_slot" binding:"required"`
	Description  string `json:"description"`
}

// AppointmentFilter — параметры выборки списков.
type AppointmentFilter struct {
	VeterinarianID *int
	OwnerEmail     string
	Status         string
	Reviewed       *bool
}
