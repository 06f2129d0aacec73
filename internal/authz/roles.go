package authz

import "vetclinic/internal/models"

// Capability — атомарное право. Набор прав считается один раз по роли,
// дальше все проверки — по capability, без сравнения строк роли по месту.
type Capability string

const (
	CapAppointmentsOwn    Capability = "appointments:own"    // свои записи на приём
	CapAppointmentsAll    Capability = "appointments:all"    // любые записи, смена статусов
	CapAppointmentsAssign Capability = "appointments:assign" // назначение врача
	CapClinicalRecords    Capability = "clinical:write"      // ведение клинических записей
	CapUsersManage        Capability = "users:manage"        // администрирование аккаунтов
	CapTelegramLink       Capability = "telegram:link"       // привязка Telegram-чата
)

var roleCapabilities = map[string]map[Capability]struct{}{
	models.RolePatient: set(
		CapAppointmentsOwn,
	),
	models.RoleVeterinarian: set(
		CapAppointmentsOwn,
		CapAppointmentsAll,
		CapClinicalRecords,
		CapTelegramLink,
	),
	models.RoleAdmin: set(
		CapAppointmentsOwn,
		CapAppointmentsAll,
		CapAppointmentsAssign,
		CapClinicalRecords,
		CapUsersManage,
		CapTelegramLink,
	),
}

func set(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// Can — единственная точка принятия решения "роль → право".
func Can(role string, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}

func ValidRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

func IsStaff(role string) bool {
	return role == models.RoleVeterinarian || role == models.RoleAdmin
}
