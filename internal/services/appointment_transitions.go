package services

import "vetclinic/internal/models"

// Допустимые переходы статусов приёма.
// cancelled и completed — финальные: из них выхода нет.
var appointmentTransitions = map[string]map[string]bool{
	models.StatusPending:   {models.StatusConfirmed: true, models.StatusCancelled: true},
	models.StatusConfirmed: {models.StatusCompleted: true, models.StatusCancelled: true},
	models.StatusCancelled: {},
	models.StatusCompleted: {},
}

func canTransition(current, to string) bool {
	nexts, ok := appointmentTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

func validStatus(status string) bool {
	_, ok := appointmentTransitions[status]
	return ok
}
