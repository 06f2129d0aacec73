package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/services"
)

// UserHandler — административные операции над аккаунтами.
type UserHandler struct {
	accounts services.AccountService
}

func NewUserHandler(accounts services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// @Summary      Список аккаунтов
// @Tags         Usuarios
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios [get]
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.accounts.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "usuarios": list})
}

// @Summary      Аккаунт по id
// @Tags         Usuarios
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /usuarios/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	acc, err := h.accounts.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	if acc == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cuenta no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "usuario": acc})
}

// @Summary      Обновление профиля
// @Tags         Usuarios
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req struct {
		Name    string `json:"name" binding:"required"`
		Surname string `json:"surname" binding:"required"`
		Phone   string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	acc, err := h.accounts.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	if acc == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cuenta no encontrada"})
		return
	}

	acc.Name = req.Name
	acc.Surname = req.Surname
	acc.Phone = req.Phone
	if err := h.accounts.UpdateProfile(acc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Perfil actualizado", "usuario": acc})
}

// @Summary      Смена роли
// @Description  Единственный путь смены роли после создания аккаунта
// @Tags         Usuarios
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios/{id}/rol [post]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	if err := h.accounts.UpdateRole(id, req.Role); err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Rol inválido"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Rol actualizado"})
}

// @Summary      Активация/деактивация аккаунта
// @Tags         Usuarios
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios/{id}/activo [post]
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	if err := h.accounts.SetActive(id, *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Estado de la cuenta actualizado"})
}

// @Summary      Удаление аккаунта
// @Tags         Usuarios
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "ID inválido"})
		return
	}
	if err := h.accounts.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Cuenta eliminada"})
}

// @Summary      Количество аккаунтов
// @Tags         Usuarios
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios/contar [get]
func (h *UserHandler) GetCount(c *gin.Context) {
	total, err := h.accounts.GetCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": total})
}

// @Summary      Количество аккаунтов по роли
// @Tags         Usuarios
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /usuarios/contar/{role} [get]
func (h *UserHandler) GetCountByRole(c *gin.Context) {
	role := c.Param("role")
	total, err := h.accounts.GetCountByRole(role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": role, "total": total})
}

// @Summary      Привязка Telegram-чата для уведомлений персонала
// @Tags         Usuarios
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /integracion/telegram [post]
func (h *UserHandler) LinkTelegram(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req struct {
		ChatID int64 `json:"chat_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}
	if err := h.accounts.LinkTelegramChat(userID, req.ChatID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Chat de Telegram vinculado"})
}
