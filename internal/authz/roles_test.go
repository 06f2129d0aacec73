package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vetclinic/internal/models"
)

func TestCapabilityMatrix(t *testing.T) {
	// пациент: только свои записи
	assert.True(t, Can(models.RolePatient, CapAppointmentsOwn))
	assert.False(t, Can(models.RolePatient, CapAppointmentsAll))
	assert.False(t, Can(models.RolePatient, CapClinicalRecords))
	assert.False(t, Can(models.RolePatient, CapUsersManage))

	// врач: чужие записи и клиника, но не администрирование и не назначение
	assert.True(t, Can(models.RoleVeterinarian, CapAppointmentsAll))
	assert.True(t, Can(models.RoleVeterinarian, CapClinicalRecords))
	assert.True(t, Can(models.RoleVeterinarian, CapTelegramLink))
	assert.False(t, Can(models.RoleVeterinarian, CapAppointmentsAssign))
	assert.False(t, Can(models.RoleVeterinarian, CapUsersManage))

	// админ: всё
	for _, cap := range []Capability{
		CapAppointmentsOwn, CapAppointmentsAll, CapAppointmentsAssign,
		CapClinicalRecords, CapUsersManage, CapTelegramLink,
	} {
		assert.True(t, Can(models.RoleAdmin, cap), "admin %s", cap)
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	assert.False(t, Can("superuser", CapAppointmentsOwn))
	assert.False(t, Can("", CapAppointmentsOwn))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(models.RolePatient))
	assert.True(t, ValidRole(models.RoleVeterinarian))
	assert.True(t, ValidRole(models.RoleAdmin))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}

func TestIsStaff(t *testing.T) {
	assert.False(t, IsStaff(models.RolePatient))
	assert.True(t, IsStaff(models.RoleVeterinarian))
	assert.True(t, IsStaff(models.RoleAdmin))
}
