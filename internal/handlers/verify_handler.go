package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/services"
)

type VerifyHandler struct {
	accounts services.AccountService
}

func NewVerifyHandler(accounts services.AccountService) *VerifyHandler {
	return &VerifyHandler{accounts: accounts}
}

// @Summary      Подтверждение кода верификации
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/verificar-codigo [post]
func (h *VerifyHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	if err := h.accounts.VerifyCode(req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cuenta no encontrada"})
		case errors.Is(err, services.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "La cuenta ya está verificada"})
		case errors.Is(err, services.ErrNoCodePending):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "No hay código pendiente"})
		case errors.Is(err, services.ErrCodeExpired):
			// клиент по этому флагу предлагает переотправку
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Código expirado", "codeExpired": true})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Código incorrecto"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Cuenta verificada"})
}

// @Summary      Повторная отправка кода верификации
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      429  {object}  map[string]interface{}
// @Router       /auth/reenviar-codigo [post]
func (h *VerifyHandler) ResendCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	if err := h.accounts.ResendCode(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cuenta no encontrada"})
		case errors.Is(err, services.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "La cuenta ya está verificada"})
		case errors.Is(err, services.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "mensaje": "Demasiadas solicitudes, inténtalo más tarde"})
		case errors.Is(err, services.ErrEmailSendFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "No se pudo enviar el código"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Código reenviado"})
}
