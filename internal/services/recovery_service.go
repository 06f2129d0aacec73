package services

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"vetclinic/internal/models"
	"vetclinic/internal/repositories"
)

var (
	ErrDomainNotAllowed = errors.New("email domain not allowed")
	ErrSamePassword     = errors.New("new password equals current password")
)

// RecoveryService — восстановление пароля. Та же механика одноразового кода,
// что и у верификации, но на отдельной паре колонок: оба процесса могут идти
// одновременно и не затирают друг друга.
type RecoveryService interface {
	// NB: в отличие от логина здесь существование аккаунта раскрывается
	// (ответ "не найдено"). Осознанная асимметрия, оставлена как в продукте.
	RequestRecovery(email string) error
	// на успех возвращает короткоживущий continuation-токен
	VerifyRecoveryCode(email, code string) (string, error)
	ResetPassword(email, code, newPassword string) error
}

type recoveryService struct {
	repo           repositories.AccountRepository
	auth           AuthService
	tokens         TokenService
	emails         EmailService
	allowedDomains []string
	log            *zap.Logger
}

func NewRecoveryService(
	repo repositories.AccountRepository,
	auth AuthService,
	tokens TokenService,
	emails EmailService,
	allowedDomains []string,
	log *zap.Logger,
) RecoveryService {
	return &recoveryService{
		repo:           repo,
		auth:           auth,
		tokens:         tokens,
		emails:         emails,
		allowedDomains: allowedDomains,
		log:            log,
	}
}

func (s *recoveryService) domainAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, d := range s.allowedDomains {
		if domain == d {
			return true
		}
	}
	return false
}

func (s *recoveryService) RequestRecovery(email string) error {
	email = normalizeEmail(email)
	if !s.domainAllowed(email) {
		return ErrDomainNotAllowed
	}

	acc, err := s.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	if !acc.Active {
		return ErrAccountInactive
	}

	since := time.Now().Add(-resendWindow)
	cnt, err := s.repo.CountRecentCodeSends(acc.ID, models.PurposeRecovery, since)
	if err != nil {
		return err
	}
	if cnt >= maxResendsPerWindow {
		return ErrResendThrottled
	}

	code := generateCode()
	if err := s.repo.SetCode(acc.ID, models.PurposeRecovery, code, time.Now().Add(CodeTTL)); err != nil {
		return err
	}
	if err := s.repo.RecordCodeSend(acc.ID, models.PurposeRecovery, time.Now()); err != nil {
		s.log.Warn("code send journal failed", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	if err := s.emails.SendRecoveryCode(acc.Email, code); err != nil {
		// код без письма — мёртвый груз, чистим сразу
		s.log.Warn("recovery email failed, clearing code", zap.String("email", acc.Email), zap.Error(err))
		_ = s.repo.ClearCode(acc.ID, models.PurposeRecovery)
		return ErrEmailSendFailed
	}

	s.log.Info("recovery code issued", zap.Int("account_id", acc.ID))
	return nil
}

func (s *recoveryService) VerifyRecoveryCode(email, code string) (string, error) {
	email = normalizeEmail(email)
	acc, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "", ErrAccountNotFound
	}
	if err := checkCode(acc.RecoveryCode, code); err != nil {
		return "", err
	}
	// код не потребляем: сброс перепроверит его ещё раз и погасит
	return s.tokens.IssueRecoveryToken(email)
}

// validateRecoveryPassword: только буквы и цифры, длина не меньше 8.
func validateRecoveryPassword(pw string) error {
	if len(pw) < 8 {
		return ErrWeakPassword
	}
	for _, r := range pw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ErrWeakPassword
		}
	}
	return nil
}

func (s *recoveryService) ResetPassword(email, code, newPassword string) error {
	email = normalizeEmail(email)
	acc, err := s.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	// continuation-токену одному не доверяем: код проверяется повторно
	if err := checkCode(acc.RecoveryCode, code); err != nil {
		return err
	}
	if err := validateRecoveryPassword(newPassword); err != nil {
		return err
	}
	if s.auth.CheckPassword(acc.PasswordHash, newPassword) {
		return ErrSamePassword
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	// новый хэш и очистка кода — одним UPDATE
	if err := s.repo.UpdatePasswordAndClearCode(acc.ID, hash); err != nil {
		return err
	}

	// подтверждение — best effort, сброс уже состоялся
	if err := s.emails.SendPasswordChanged(acc.Email); err != nil {
		s.log.Warn("password changed email failed", zap.String("email", acc.Email), zap.Error(err))
	}

	s.log.Info("password reset", zap.Int("account_id", acc.ID))
	return nil
}
