package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"vetclinic/internal/models"
)

// --- моки репозиториев и почты для юнит-тестов сервисов ---

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(acc *models.Account) error {
	args := m.Called(acc)
	return args.Error(0)
}

func (m *mockAccountRepo) GetByID(id int) (*models.Account, error) {
	args := m.Called(id)
	if acc := args.Get(0); acc != nil {
		return acc.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(email string) (*models.Account, error) {
	args := m.Called(email)
	if acc := args.Get(0); acc != nil {
		return acc.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) Update(acc *models.Account) error {
	args := m.Called(acc)
	return args.Error(0)
}

func (m *mockAccountRepo) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockAccountRepo) List(limit, offset int) ([]*models.Account, error) {
	args := m.Called(limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) GetCount() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepo) GetCountByRole(role string) (int, error) {
	args := m.Called(role)
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepo) SetCode(userID int, purpose models.CodePurpose, code string, expiresAt time.Time) error {
	args := m.Called(userID, purpose, code, expiresAt)
	return args.Error(0)
}

func (m *mockAccountRepo) ClearCode(userID int, purpose models.CodePurpose) error {
	args := m.Called(userID, purpose)
	return args.Error(0)
}

func (m *mockAccountRepo) MarkVerified(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdatePasswordAndClearCode(userID int, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *mockAccountRepo) SetActive(userID int, active bool) error {
	args := m.Called(userID, active)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdateRole(userID int, role string) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdateTelegramChat(userID int, chatID int64) error {
	args := m.Called(userID, chatID)
	return args.Error(0)
}

func (m *mockAccountRepo) RecordCodeSend(userID int, purpose models.CodePurpose, sentAt time.Time) error {
	args := m.Called(userID, purpose, sentAt)
	return args.Error(0)
}

func (m *mockAccountRepo) CountRecentCodeSends(userID int, purpose models.CodePurpose, since time.Time) (int, error) {
	args := m.Called(userID, purpose, since)
	return args.Int(0), args.Error(1)
}

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(a *models.Appointment) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *mockAppointmentRepo) GetByID(id int) (*models.Appointment, error) {
	args := m.Called(id)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) Update(a *models.Appointment) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *mockAppointmentRepo) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockAppointmentRepo) List(filter models.AppointmentFilter, limit, offset int) ([]*models.Appointment, error) {
	args := m.Called(filter, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(id int, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *mockAppointmentRepo) AssignVeterinarian(id, vetID int) error {
	args := m.Called(id, vetID)
	return args.Error(0)
}

func (m *mockAppointmentRepo) MarkReviewed(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockAppointmentRepo) ExistsAtSlot(date, timeSlot string) (bool, error) {
	args := m.Called(date, timeSlot)
	return args.Bool(0), args.Error(1)
}

type mockClinicalRecordRepo struct {
	mock.Mock
}

func (m *mockClinicalRecordRepo) Create(rec *models.ClinicalRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *mockClinicalRecordRepo) GetByID(id int) (*models.ClinicalRecord, error) {
	args := m.Called(id)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.ClinicalRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClinicalRecordRepo) Update(rec *models.ClinicalRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *mockClinicalRecordRepo) ListByAppointment(appointmentID int) ([]*models.ClinicalRecord, error) {
	args := m.Called(appointmentID)
	if v := args.Get(0); v != nil {
		return v.([]*models.ClinicalRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendVerificationCode(email, name, code string) error {
	args := m.Called(email, name, code)
	return args.Error(0)
}

func (m *mockEmailService) SendRecoveryCode(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func (m *mockEmailService) SendPasswordChanged(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

// fakeAuth — детерминированная замена bcrypt, чтобы тесты не тратили время
// на реальное хэширование.
type fakeAuth struct{}

func (fakeAuth) HashPassword(plain string) (string, error) { return "hashed:" + plain, nil }
func (fakeAuth) CheckPassword(hash, plain string) bool     { return hash == "hashed:"+plain }
