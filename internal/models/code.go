package models

import "time"

// CodePurpose — назначение одноразового кода. Верификация регистрации и
// восстановление пароля живут в разных парах колонок и не пересекаются.
type CodePurpose string

const (
	PurposeVerification CodePurpose = "verification"
	PurposeRecovery     CodePurpose = "recovery"
)

// OneShotCode — одноразовый код с TTL. Общий тип для обоих назначений,
// чтобы логика проверки не расходилась между ними.
type OneShotCode struct {
	Code      *string    `json:"-"`
	ExpiresAt *time.Time `json:"-"`
}

// Pending — код выдан и ещё не употреблён (срок здесь не проверяем).
func (c OneShotCode) Pending() bool {
	return c.Code != nil && c.ExpiresAt != nil
}

func (c OneShotCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Matches — строковое сравнение с выданным кодом.
func (c OneShotCode) Matches(code string) bool {
	return c.Code != nil && *c.Code == code
}
