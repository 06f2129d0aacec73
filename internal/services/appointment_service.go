package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"vetclinic/internal/models"
	"vetclinic/internal/repositories"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("slot already taken")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrStatusTransition    = errors.New("status transition not allowed")
	ErrInvalidPet          = errors.New("invalid pet attributes")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNotVeterinarian     = errors.New("account is not a veterinarian")
	ErrNotAssigned         = errors.New("appointment not assigned to this veterinarian")
	ErrRecordNotFound      = errors.New("clinical record not found")
)

type AppointmentService interface {
	Create(req *models.AppointmentRequest) (*models.Appointment, error)
	GetByID(id int) (*models.Appointment, error)
	List(filter models.AppointmentFilter, limit, offset int) ([]*models.Appointment, error)
	ListByOwner(email string, limit, offset int) ([]*models.Appointment, error)
	UpdateFull(id int, req *models.AppointmentRequest) (*models.Appointment, error)
	Delete(id int) error

	CheckAvailability(date, timeSlot string) (bool, error)
	UpdateStatus(id int, newStatus string) error
	AssignVeterinarian(id, vetID int) error
	MarkReviewed(id, vetID int) error
	ActiveForVet(vetID int, limit, offset int) ([]*models.Appointment, error)
	HistoryForVet(vetID int, limit, offset int) ([]*models.Appointment, error)

	SaveClinicalRecord(appointmentID int, req *models.ClinicalRecordRequest) (*models.ClinicalRecord, error)
	UpdateClinicalRecord(recordID int, req *models.ClinicalRecordRequest) (*models.ClinicalRecord, error)
	ListClinicalRecords(appointmentID int) ([]*models.ClinicalRecord, error)
}

type appointmentService struct {
	repo     repositories.AppointmentRepository
	records  repositories.ClinicalRecordRepository
	accounts repositories.AccountRepository
	notifier *NotifierService // может быть nil
	log      *zap.Logger
}

func NewAppointmentService(
	repo repositories.AppointmentRepository,
	records repositories.ClinicalRecordRepository,
	accounts repositories.AccountRepository,
	notifier *NotifierService,
	log *zap.Logger,
) AppointmentService {
	return &appointmentService{
		repo:     repo,
		records:  records,
		accounts: accounts,
		notifier: notifier,
		log:      log,
	}
}

func validatePet(species, sex string) error {
	okSpecies := false
	for _, s := range models.PetSpecies {
		if s == species {
			okSpecies = true
			break
		}
	}
	okSex := false
	for _, s := range models.PetSexes {
		if s == sex {
			okSex = true
			break
		}
	}
	if !okSpecies || !okSex {
		return ErrInvalidPet
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (s *appointmentService) Create(req *models.AppointmentRequest) (*models.Appointment, error) {
	if err := validatePet(req.PetSpecies, req.PetSex); err != nil {
		return nil, err
	}
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsAtSlot(req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	// контактные поля копируются как снимок на момент записи
	a := &models.Appointment{
		OwnerName:    strings.TrimSpace(req.OwnerName),
		OwnerSurname: strings.TrimSpace(req.OwnerSurname),
		OwnerEmail:   normalizeEmail(req.OwnerEmail),
		OwnerPhone:   strings.TrimSpace(req.OwnerPhone),
		PetName:      strings.TrimSpace(req.PetName),
		PetAge:       req.PetAge,
		PetSpecies:   req.PetSpecies,
		PetSex:       req.PetSex,
		Date:         req.Date,
		TimeSlot:     req.TimeSlot,
		Description:  req.Description,
		Status:       models.StatusPending,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, err
	}
	s.log.Info("appointment created",
		zap.Int("appointment_id", a.ID), zap.String("date", a.Date), zap.String("slot", a.TimeSlot))
	return a, nil
}

func (s *appointmentService) GetByID(id int) (*models.Appointment, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (s *appointmentService) List(filter models.AppointmentFilter, limit, offset int) ([]*models.Appointment, error) {
	return s.repo.List(filter, limit, offset)
}

func (s *appointmentService) ListByOwner(email string, limit, offset int) ([]*models.Appointment, error) {
	return s.repo.List(models.AppointmentFilter{OwnerEmail: normalizeEmail(email)}, limit, offset)
}

func (s *appointmentService) UpdateFull(id int, req *models.AppointmentRequest) (*models.Appointment, error) {
	a, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := validatePet(req.PetSpecies, req.PetSex); err != nil {
		return nil, err
	}
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}

	a.OwnerName = strings.TrimSpace(req.OwnerName)
	a.OwnerSurname = strings.TrimSpace(req.OwnerSurname)
	a.OwnerEmail = normalizeEmail(req.OwnerEmail)
	a.OwnerPhone = strings.TrimSpace(req.OwnerPhone)
	a.PetName = strings.TrimSpace(req.PetName)
	a.PetAge = req.PetAge
	a.PetSpecies = req.PetSpecies
	a.PetSex = req.PetSex
	a.Date = req.Date
	a.TimeSlot = req.TimeSlot
	a.Description = req.Description

	if err := s.repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *appointmentService) Delete(id int) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// CheckAvailability — свободен ли точный слот дата+время.
// Отменённый приём слот не занимает.
func (s *appointmentService) CheckAvailability(date, timeSlot string) (bool, error) {
	if err := validateDate(date); err != nil {
		return false, err
	}
	taken, err := s.repo.ExistsAtSlot(date, timeSlot)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *appointmentService) UpdateStatus(id int, newStatus string) error {
	if !validStatus(newStatus) {
		return ErrInvalidStatus
	}
	a, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !canTransition(a.Status, newStatus) {
		return ErrStatusTransition
	}
	if err := s.repo.UpdateStatus(id, newStatus); err != nil {
		return err
	}
	s.log.Info("appointment status changed",
		zap.Int("appointment_id", id), zap.String("from", a.Status), zap.String("to", newStatus))
	return nil
}

func (s *appointmentService) AssignVeterinarian(id, vetID int) error {
	a, err := s.GetByID(id)
	if err != nil {
		return err
	}
	vet, err := s.accounts.GetByID(vetID)
	if err != nil {
		return err
	}
	if vet == nil || vet.Role != models.RoleVeterinarian {
		return ErrNotVeterinarian
	}
	if err := s.repo.AssignVeterinarian(id, vetID); err != nil {
		return err
	}

	if s.notifier != nil && vet.TelegramChatID != 0 {
		s.notifier.NotifyAppointmentAssigned(vet.TelegramChatID, a)
	}
	return nil
}

func (s *appointmentService) MarkReviewed(id, vetID int) error {
	a, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if a.VeterinarianID == nil || *a.VeterinarianID != vetID {
		return ErrNotAssigned
	}
	return s.repo.MarkReviewed(id)
}

func (s *appointmentService) ActiveForVet(vetID, limit, offset int) ([]*models.Appointment, error) {
	reviewed := false
	return s.repo.List(models.AppointmentFilter{VeterinarianID: &vetID, Reviewed: &reviewed}, limit, offset)
}

func (s *appointmentService) HistoryForVet(vetID, limit, offset int) ([]*models.Appointment, error) {
	reviewed := true
	return s.repo.List(models.AppointmentFilter{VeterinarianID: &vetID, Reviewed: &reviewed}, limit, offset)
}

func (s *appointmentService) SaveClinicalRecord(appointmentID int, req *models.ClinicalRecordRequest) (*models.ClinicalRecord, error) {
	if _, err := s.GetByID(appointmentID); err != nil {
		return nil, err
	}
	rec := &models.ClinicalRecord{
		AppointmentID: appointmentID,
		Symptoms:      req.Symptoms,
		Temperature:   req.Temperature,
		Weight:        req.Weight,
		HeartRate:     req.HeartRate,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		VaccineName:   req.VaccineName,
		VaccineBatch:  req.VaccineBatch,
		Notes:         req.Notes,
	}
	if err := s.records.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *appointmentService) UpdateClinicalRecord(recordID int, req *models.ClinicalRecordRequest) (*models.ClinicalRecord, error) {
	rec, err := s.records.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}

	rec.Symptoms = req.Symptoms
	rec.Temperature = req.Temperature
	rec.Weight = req.Weight
	rec.HeartRate = req.HeartRate
	rec.Diagnosis = req.Diagnosis
	rec.Treatment = req.Treatment
	rec.VaccineName = req.VaccineName
	rec.VaccineBatch = req.VaccineBatch
	rec.Notes = req.Notes

	if err := s.records.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *appointmentService) ListClinicalRecords(appointmentID int) ([]*models.ClinicalRecord, error) {
	if _, err := s.GetByID(appointmentID); err != nil {
		return nil, err
	}
	return s.records.ListByAppointment(appointmentID)
}
