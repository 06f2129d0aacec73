package models

import "time"

// ClinicalRecord — запись осмотра, привязанная к приёму. На один приём может
// накапливаться несколько записей (хронологический список).
type ClinicalRecord struct {
	ID            int    `json:"id"`
	AppointmentID int    `json:"appointment_id"`
	Symptoms      string `json:"symptoms"`

	// Витальные показатели
	Temperature float64 `json:"temperature"` // °C
	Weight      float64 `json:"weight"`      // кг
	HeartRate   int     `json:"heart_rate"`  // уд/мин

	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`

	// Вакцинация (опционально)
	VaccineName  string `json:"vaccine_name,omitempty"`
	VaccineBatch string `json:"vaccine_batch,omitempty"`

	Notes string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClinicalRecordRequest struct {
	Symptoms     string  `json:"symptoms" binding:"required"`
	Temperature  float64 `json:"temperature"`
	Weight       float64 `json:"weight"`
	HeartRate    int     `json:"heart_rate"`
	Diagnosis    string  `json:"diagnosis" binding:"required"`
	Treatment    string  `json:"treatment"`
	VaccineName  string  `json:"vaccine_name"`
	VaccineBatch string  `json:"vaccine_batch"`
	Notes        string  `json:"notes"`
}
