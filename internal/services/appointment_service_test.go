package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vetclinic/internal/models"
)

func newAppointmentService(repo *mockAppointmentRepo, records *mockClinicalRecordRepo, accounts *mockAccountRepo) AppointmentService {
	return NewAppointmentService(repo, records, accounts, nil, zap.NewNop())
}

func appointmentRequest() *models.AppointmentRequest {
	return &models.AppointmentRequest{
		OwnerName:    "Ana",
		OwnerSurname: "García",
		OwnerEmail:   "Ana@Gmail.com",
		PetName:      "Rocky",
		PetAge:       4,
		PetSpecies:   "dog",
		PetSex:       "male",
		Date:         "2026-09-15",
		TimeSlot:     "10:00",
	}
}

func pendingAppointment() *models.Appointment {
	return &models.Appointment{
		ID:       11,
		Date:     "2026-09-15",
		TimeSlot: "10:00",
		Status:   models.StatusPending,
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusConfirmed, models.StatusCompleted, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusPending, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusPending, models.StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, canTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCreateValidatesPetAndDate(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	req := appointmentRequest()
	req.PetSpecies = "dragon"
	_, err := svc.Create(req)
	assert.ErrorIs(t, err, ErrInvalidPet)

	req = appointmentRequest()
	req.PetSex = "unknown"
	_, err = svc.Create(req)
	assert.ErrorIs(t, err, ErrInvalidPet)

	req = appointmentRequest()
	req.Date = "15-09-2026"
	_, err = svc.Create(req)
	assert.ErrorIs(t, err, ErrInvalidDate)

	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	repo.On("ExistsAtSlot", "2026-09-15", "10:00").Return(true, nil).Once()

	_, err := svc.Create(appointmentRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateSnapshotsOwnerAndStartsPending(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	repo.On("ExistsAtSlot", "2026-09-15", "10:00").Return(false, nil).Once()
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Appointment).ID = 11
	}).Return(nil).Once()

	a, err := svc.Create(appointmentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, "ana@gmail.com", a.OwnerEmail)
	assert.False(t, a.Reviewed)
	assert.Nil(t, a.VeterinarianID)
}

func TestCheckAvailability(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	repo.On("ExistsAtSlot", "2026-09-15", "10:00").Return(true, nil).Once()
	free, err := svc.CheckAvailability("2026-09-15", "10:00")
	require.NoError(t, err)
	assert.False(t, free)

	repo.On("ExistsAtSlot", "2026-09-15", "11:00").Return(false, nil).Once()
	free, err = svc.CheckAvailability("2026-09-15", "11:00")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.CheckAvailability("mañana", "10:00")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdateStatus(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	err := svc.UpdateStatus(11, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.On("GetByID", 11).Return(pendingAppointment(), nil).Once()
	err = svc.UpdateStatus(11, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrStatusTransition)

	repo.On("GetByID", 11).Return(pendingAppointment(), nil).Once()
	repo.On("UpdateStatus", 11, models.StatusConfirmed).Return(nil).Once()
	assert.NoError(t, svc.UpdateStatus(11, models.StatusConfirmed))
	repo.AssertExpectations(t)
}

func TestUpdateStatusUnknownAppointment(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	repo.On("GetByID", 99).Return(nil, nil).Once()
	err := svc.UpdateStatus(99, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAssignVeterinarianRequiresVetRole(t *testing.T) {
	repo := new(mockAppointmentRepo)
	accounts := new(mockAccountRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), accounts)

	repo.On("GetByID", 11).Return(pendingAppointment(), nil)

	accounts.On("GetByID", 5).Return(nil, nil).Once()
	assert.ErrorIs(t, svc.AssignVeterinarian(11, 5), ErrNotVeterinarian)

	patient := &models.Account{ID: 5, Role: models.RolePatient}
	accounts.On("GetByID", 5).Return(patient, nil).Once()
	assert.ErrorIs(t, svc.AssignVeterinarian(11, 5), ErrNotVeterinarian)

	repo.AssertNotCalled(t, "AssignVeterinarian", mock.Anything, mock.Anything)
}

func TestAssignVeterinarianSuccess(t *testing.T) {
	repo := new(mockAppointmentRepo)
	accounts := new(mockAccountRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), accounts)

	vet := &models.Account{ID: 5, Role: models.RoleVeterinarian}
	repo.On("GetByID", 11).Return(pendingAppointment(), nil).Once()
	accounts.On("GetByID", 5).Return(vet, nil).Once()
	repo.On("AssignVeterinarian", 11, 5).Return(nil).Once()

	assert.NoError(t, svc.AssignVeterinarian(11, 5))
	repo.AssertExpectations(t)
}

func TestMarkReviewedRequiresAssignment(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	// приём без врача
	repo.On("GetByID", 11).Return(pendingAppointment(), nil).Once()
	assert.ErrorIs(t, svc.MarkReviewed(11, 5), ErrNotAssigned)

	// приём чужого врача
	other := 8
	a := pendingAppointment()
	a.VeterinarianID = &other
	repo.On("GetByID", 11).Return(a, nil).Once()
	assert.ErrorIs(t, svc.MarkReviewed(11, 5), ErrNotAssigned)

	repo.AssertNotCalled(t, "MarkReviewed", mock.Anything)
}

func TestMarkReviewedSuccess(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	vetID := 5
	a := pendingAppointment()
	a.VeterinarianID = &vetID
	repo.On("GetByID", 11).Return(a, nil).Once()
	repo.On("MarkReviewed", 11).Return(nil).Once()

	assert.NoError(t, svc.MarkReviewed(11, 5))
	repo.AssertExpectations(t)
}

func TestVetListsSplitByReviewed(t *testing.T) {
	repo := new(mockAppointmentRepo)
	svc := newAppointmentService(repo, new(mockClinicalRecordRepo), new(mockAccountRepo))

	vetID := 5
	repo.On("List", mock.MatchedBy(func(f models.AppointmentFilter) bool {
		return f.VeterinarianID != nil && *f.VeterinarianID == vetID &&
			f.Reviewed != nil && !*f.Reviewed
	}), 50, 0).Return([]*models.Appointment{}, nil).Once()
	_, err := svc.ActiveForVet(vetID, 50, 0)
	require.NoError(t, err)

	repo.On("List", mock.MatchedBy(func(f models.AppointmentFilter) bool {
		return f.VeterinarianID != nil && *f.VeterinarianID == vetID &&
			f.Reviewed != nil && *f.Reviewed
	}), 50, 0).Return([]*models.Appointment{}, nil).Once()
	_, err = svc.HistoryForVet(vetID, 50, 0)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestClinicalRecordsRequireExistingAppointment(t *testing.T) {
	repo := new(mockAppointmentRepo)
	records := new(mockClinicalRecordRepo)
	svc := newAppointmentService(repo, records, new(mockAccountRepo))

	repo.On("GetByID", 99).Return(nil, nil)

	_, err := svc.SaveClinicalRecord(99, &models.ClinicalRecordRequest{Symptoms: "tos", Diagnosis: "gripe"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.ListClinicalRecords(99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	records.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSaveAndUpdateClinicalRecord(t *testing.T) {
	repo := new(mockAppointmentRepo)
	records := new(mockClinicalRecordRepo)
	svc := newAppointmentService(repo, records, new(mockAccountRepo))

	repo.On("GetByID", 11).Return(pendingAppointment(), nil).Once()
	records.On("Create", mock.MatchedBy(func(rec *models.ClinicalRecord) bool {
		return rec.AppointmentID == 11 && rec.Diagnosis == "gripe"
	})).Return(nil).Once()

	rec, err := svc.SaveClinicalRecord(11, &models.ClinicalRecordRequest{Symptoms: "tos", Diagnosis: "gripe"})
	require.NoError(t, err)
	assert.Equal(t, 11, rec.AppointmentID)

	records.On("GetByID", 2).Return(nil, nil).Once()
	_, err = svc.UpdateClinicalRecord(2, &models.ClinicalRecordRequest{Symptoms: "tos", Diagnosis: "otra"})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	existing := &models.ClinicalRecord{ID: 2, AppointmentID: 11}
	records.On("GetByID", 2).Return(existing, nil).Once()
	records.On("Update", existing).Return(nil).Once()
	updated, err := svc.UpdateClinicalRecord(2, &models.ClinicalRecordRequest{Symptoms: "tos", Diagnosis: "otra"})
	require.NoError(t, err)
	assert.Equal(t, "otra", updated.Diagnosis)
}
