package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/services"
)

type RecoveryHandler struct {
	recovery services.RecoveryService
	tokens   services.TokenService
}

func NewRecoveryHandler(recovery services.RecoveryService, tokens services.TokenService) *RecoveryHandler {
	return &RecoveryHandler{recovery: recovery, tokens: tokens}
}

// @Summary      Запрос кода восстановления пароля
// @Tags         Recovery
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /auth/recuperacion/solicitar [post]
func (h *RecoveryHandler) RequestRecovery(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	if err := h.recovery.RequestRecovery(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrDomainNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Dominio de correo no soportado"})
		case errors.Is(err, services.ErrAccountNotFound):
			// здесь существование раскрываем — асимметрия с логином осознанная
			c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cuenta no encontrada"})
		case errors.Is(err, services.ErrAccountInactive):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Cuenta desactivada"})
		case errors.Is(err, services.ErrResendThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "mensaje": "Demasiadas solicitudes, inténtalo más tarde"})
		case errors.Is(err, services.ErrEmailSendFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "No se pudo enviar el código"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Código de recuperación enviado"})
}

// @Summary      Проверка кода восстановления
// @Description  На успех выдаёт короткоживущий continuation-токен для шага сброса
// @Tags         Recovery
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/recuperacion/verificar [post]
func (h *RecoveryHandler) VerifyRecoveryCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	token, err := h.recovery.VerifyRecoveryCode(req.Email, req.Code)
	if err != nil {
		respondCodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"mensaje":            "Código verificado",
		"continuation_token": token,
	})
}

// @Summary      Сброс пароля
// @Description  continuation-токен с шага проверки, если передан, обязан быть валиден и совпадать по email
// @Tags         Recovery
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/recuperacion/restablecer [post]
func (h *RecoveryHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email             string `json:"email" binding:"required"`
		Code              string `json:"code" binding:"required"`
		NewPassword       string `json:"new_password" binding:"required"`
		ContinuationToken string `json:"continuation_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	// токен — дополнительная привязка к проверенному email; сам код
	// перепроверяется сервисом в любом случае
	if req.ContinuationToken != "" {
		claims, err := h.tokens.VerifyRecoveryToken(req.ContinuationToken)
		if err != nil || !strings.EqualFold(strings.TrimSpace(req.Email), claims.Email) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Token de continuación inválido"})
			return
		}
	}

	if err := h.recovery.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"mensaje": "La contraseña debe ser alfanumérica y tener al menos 8 caracteres",
				"campo":   "new_password",
			})
		case errors.Is(err, services.ErrSamePassword):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "La nueva contraseña no puede ser igual a la actual"})
		default:
			respondCodeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "Contraseña restablecida"})
}

// общая раскладка ошибок лестницы проверки кода
func respondCodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "Cuenta no encontrada"})
	case errors.Is(err, services.ErrNoCodePending):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "No hay código pendiente"})
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Código expirado", "codeExpired": true})
	case errors.Is(err, services.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Código incorrecto"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
	}
}
