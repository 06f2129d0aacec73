package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/authz"
	"vetclinic/internal/models"
	"vetclinic/internal/pdf"
	"vetclinic/internal/services"
)

type AppointmentHandler struct {
	appointments services.AppointmentService
	pdfGen       pdf.Generator
}

func NewAppointmentHandler(appointments services.AppointmentService, pdfGen pdf.Generator) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, pdfGen: pdfGen}
}

func respondAppointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cita no encontrada"})
	case errors.Is(err, services.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "mensaje": "El horario ya está ocupado"})
	case errors.Is(err, services.ErrInvalidPet):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Especie o sexo de la mascota inválido"})
	case errors.Is(err, services.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Fecha inválida, formato esperado YYYY-MM-DD"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Estado inválido"})
	case errors.Is(err, services.ErrStatusTransition):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Transición de estado no permitida"})
	case errors.Is(err, services.ErrNotVeterinarian):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "La cuenta no es de un veterinario"})
	case errors.Is(err, services.ErrNotAssigned):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "mensaje": "La cita no está asignada a este veterinario"})
	case errors.Is(err, services.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Registro clínico no encontrado"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
	}
}

// @Summary      Создание записи на приём
// @Tags         Citas
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /citas [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	a, err := h.appointments.Create(&req)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "mensaje": "Cita creada", "cita": a})
}

// @Summary      Список записей
// @Description  Пациент видит только свои записи, персонал — все
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	_, role := getUserAndRole(c)

	var filter models.AppointmentFilter
	if !authz.Can(role, authz.CapAppointmentsAll) {
		// пациент: только свои, по email из токена
		email, _ := c.Get("email")
		filter.OwnerEmail, _ = email.(string)
	} else {
		filter.Status = c.Query("estado")
	}

	list, err := h.appointments.List(filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "citas": list})
}

// @Summary      Мои записи
// @Description  Записи владельца по email из токена, вне зависимости от роли
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/mias [get]
func (h *AppointmentHandler) ListOwn(c *gin.Context) {
	limit, offset := pagination(c)
	email, _ := c.Get("email")
	owner, _ := email.(string)

	list, err := h.appointments.ListByOwner(owner, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "citas": list})
}

// @Summary      Запись по id
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /citas/{id} [get]
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	a, err := h.appointments.GetByID(id)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}

	// пациент не видит чужие записи
	_, role := getUserAndRole(c)
	if !authz.Can(role, authz.CapAppointmentsAll) {
		email, _ := c.Get("email")
		if owner, _ := email.(string); owner != a.OwnerEmail {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "mensaje": "Acceso denegado"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cita": a})
}

// @Summary      Проверка доступности слота
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/disponibilidad [get]
func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	date := c.Query("fecha")
	slot := c.Query("hora")
	if date == "" || slot == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Parámetros fecha y hora requeridos"})
		return
	}

	available, err := h.appointments.CheckAvailability(date, slot)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "disponible": available})
}

// @Summary      Полное обновление записи
// @Tags         Citas
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/{id} [put]
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	a, err := h.appointments.UpdateFull(id, &req)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Cita actualizada", "cita": a})
}

// @Summary      Удаление записи
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	if err := h.appointments.Delete(id); err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Cita eliminada"})
}

// @Summary      Смена статуса
// @Description  Переходы ограничены таблицей: pending→confirmed|cancelled, confirmed→completed|cancelled
// @Tags         Citas
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/{id}/estado [post]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req struct {
		Estado string `json:"estado" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	if err := h.appointments.UpdateStatus(id, req.Estado); err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Estado actualizado"})
}

// @Summary      Назначение ветеринара
// @Tags         Citas
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/{id}/asignar [post]
func (h *AppointmentHandler) AssignVeterinarian(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req struct {
		VeterinarianID int `json:"veterinario_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	if err := h.appointments.AssignVeterinarian(id, req.VeterinarianID); err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Veterinario asignado"})
}

// @Summary      Отметка "просмотрено"
// @Description  Единственный механизм раздела активного и исторического списков врача
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/{id}/revisar [post]
func (h *AppointmentHandler) MarkReviewed(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	vetID, _ := getUserAndRole(c)
	if err := h.appointments.MarkReviewed(id, vetID); err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Cita marcada como revisada"})
}

// @Summary      Активные записи врача (reviewed=false)
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/activas [get]
func (h *AppointmentHandler) ActiveForVet(c *gin.Context) {
	limit, offset := pagination(c)
	vetID, _ := getUserAndRole(c)
	list, err := h.appointments.ActiveForVet(vetID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "citas": list})
}

// @Summary      Исторические записи врача (reviewed=true)
// @Tags         Citas
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/historial [get]
func (h *AppointmentHandler) HistoryForVet(c *gin.Context) {
	limit, offset := pagination(c)
	vetID, _ := getUserAndRole(c)
	list, err := h.appointments.HistoryForVet(vetID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "citas": list})
}

// @Summary      Добавление клинической записи
// @Tags         Historial
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Router       /citas/{id}/registros [post]
func (h *AppointmentHandler) SaveClinicalRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req models.ClinicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	rec, err := h.appointments.SaveClinicalRecord(id, &req)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "mensaje": "Registro clínico guardado", "registro": rec})
}

// @Summary      Обновление клинической записи
// @Tags         Historial
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /registros/{id} [put]
func (h *AppointmentHandler) UpdateClinicalRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req models.ClinicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	rec, err := h.appointments.UpdateClinicalRecord(id, &req)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Registro clínico actualizado", "registro": rec})
}

// @Summary      Хронология клинических записей приёма
// @Tags         Historial
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /citas/{id}/registros [get]
func (h *AppointmentHandler) ListClinicalRecords(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	list, err := h.appointments.ListClinicalRecords(id)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "registros": list})
}

// @Summary      Экспорт истории приёма в PDF
// @Tags         Historial
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /citas/{id}/registros/pdf [get]
func (h *AppointmentHandler) DownloadClinicalHistoryPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	a, err := h.appointments.GetByID(id)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	records, err := h.appointments.ListClinicalRecords(id)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}

	path, err := h.pdfGen.GenerateClinicalHistory(a, records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "No se pudo generar el PDF"})
		return
	}
	c.FileAttachment(path, "historial.pdf")
}
