package models

import "time"

// Роли аккаунтов. Строковые, как и в БД — без числовых id.
const (
	RolePatient      = "patient"
	RoleVeterinarian = "veterinarian"
	RoleAdmin        = "admin"
)

type Account struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"` // не отдаём наружу
	Role         string `json:"role"`

	// Флаги жизненного цикла: active — мягкое отключение, verified — допуск к логину.
	Active   bool `json:"active"`
	Verified bool `json:"verified"`

	// Два независимых одноразовых кода: активация аккаунта и восстановление пароля.
	VerificationCode OneShotCode `json:"-"`
	RecoveryCode     OneShotCode `json:"-"`

	// Telegram-уведомления для персонала (опционально)
	TelegramChatID int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	// Поле принимается, но игнорируется: роль всегда patient (анти-эскалация).
	Role string `json:"role"`
}
