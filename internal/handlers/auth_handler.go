package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/models"
	"vetclinic/internal/services"
)

type AuthHandler struct {
	accounts services.AccountService
}

func NewAuthHandler(accounts services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// @Summary      Вход в систему
// @Description  Аутентифицирует пользователя и возвращает пару токенов
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	res, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			// существование аккаунта не раскрываем
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Credenciales inválidas"})
		case errors.Is(err, services.ErrAccountInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Cuenta desactivada"})
		case errors.Is(err, services.ErrAccountNotVerified):
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false, "mensaje": "Cuenta no verificada",
				"requiresVerification": true,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mensaje": "Inicio de sesión correcto",
		"usuario": res.Account, // PasswordHash помечен json:"-", наружу не уйдёт
		"tokens": gin.H{
			"access_token":  res.AccessToken,
			"refresh_token": res.RefreshToken,
		},
	})
}

// @Summary      Регистрация
// @Description  Создаёт аккаунт пациента и отправляет код верификации на почту
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        registro  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      201       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]interface{}
// @Failure      500       {object}  map[string]interface{}
// @Router       /auth/registro [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	acc, err := h.accounts.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "El email ya está registrado", "campo": "email"})
		case errors.Is(err, services.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"mensaje": "La contraseña debe tener al menos 8 caracteres, una letra y un número",
				"campo":   "password",
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": "Email inválido", "campo": "email"})
		case errors.Is(err, services.ErrEmailSendFailed):
			// аккаунт откатили: клиент не должен увидеть успех без письма
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "No se pudo enviar el código de verificación"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "Error interno"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":              true,
		"mensaje":              "Registro correcto, revisa tu correo",
		"requiresVerification": true,
		"usuario":              acc,
	})
}

// @Summary      Обновление access-токена
// @Description  Принимает refresh-токен и выдаёт новый access-токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "mensaje": err.Error()})
		return
	}

	access, err := h.accounts.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "Token inválido o expirado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": access,
	})
}
