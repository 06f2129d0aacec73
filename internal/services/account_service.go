package services

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"vetclinic/internal/authz"
	"vetclinic/internal/models"
	"vetclinic/internal/repositories"
)

var (
	// не раскрываем, зарегистрирован ли email: одна ошибка на "нет такого" и "не тот пароль"
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account deactivated")
	ErrAccountNotVerified = errors.New("account not verified")

	ErrEmailTaken      = errors.New("email already registered")
	ErrWeakPassword    = errors.New("password does not meet policy")
	ErrAccountNotFound = errors.New("account not found")
	ErrAlreadyVerified = errors.New("account already verified")
	ErrNoCodePending   = errors.New("no code pending")
	ErrCodeExpired     = errors.New("code expired")
	ErrCodeInvalid     = errors.New("code invalid")
	ErrResendThrottled = errors.New("resend throttled")
	ErrEmailSendFailed = errors.New("email send failed")
	ErrInvalidRole     = errors.New("invalid role")
)

type LoginResult struct {
	Account      *models.Account
	AccessToken  string
	RefreshToken string
}

type AccountService interface {
	Register(req *models.RegisterRequest) (*models.Account, error)
	Login(email, password string) (*LoginResult, error)
	VerifyCode(email, code string) error
	ResendCode(email string) error
	// Refresh выдаёт только новый access; refresh не ротируется.
	Refresh(refreshToken string) (string, error)

	// администрирование
	GetByID(id int) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	List(limit, offset int) ([]*models.Account, error)
	UpdateProfile(acc *models.Account) error
	UpdateRole(id int, role string) error
	SetActive(id int, active bool) error
	Delete(id int) error
	GetCount() (int, error)
	GetCountByRole(role string) (int, error)

	LinkTelegramChat(userID int, chatID int64) error
}

type accountService struct {
	repo   repositories.AccountRepository
	auth   AuthService
	tokens TokenService
	emails EmailService
	log    *zap.Logger
}

func NewAccountService(
	repo repositories.AccountRepository,
	auth AuthService,
	tokens TokenService,
	emails EmailService,
	log *zap.Logger,
) AccountService {
	return &accountService{
		repo:   repo,
		auth:   auth,
		tokens: tokens,
		emails: emails,
		log:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistrationPassword: минимум 8 символов, хотя бы буква и цифра.
func validateRegistrationPassword(pw string) error {
	if len(pw) < 8 {
		return ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

func (s *accountService) Register(req *models.RegisterRequest) (*models.Account, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if err := validateRegistrationPassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	acc := &models.Account{
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		// роль из запроса игнорируем: регистрация всегда даёт пациента
		Role:     models.RolePatient,
		Active:   true,
		Verified: false,
	}
	if err := s.repo.Create(acc); err != nil {
		return nil, err
	}

	code := generateCode()
	expires := time.Now().Add(CodeTTL)
	if err := s.repo.SetCode(acc.ID, models.PurposeVerification, code, expires); err != nil {
		_ = s.repo.Delete(acc.ID)
		return nil, err
	}
	if err := s.repo.RecordCodeSend(acc.ID, models.PurposeVerification, time.Now()); err != nil {
		// журнал лучше неполный, чем сорванная регистрация,
		// но молчать про дыру в троттлинге нельзя
		s.log.Warn("code send journal failed", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	if err := s.emails.SendVerificationCode(acc.Email, acc.Name, code); err != nil {
		// компенсация: аккаунт не должен существовать, если письмо не дошло
		s.log.Warn("registration email failed, rolling back account",
			zap.String("email", acc.Email), zap.Error(err))
		_ = s.repo.Delete(acc.ID)
		return nil, ErrEmailSendFailed
	}

	s.log.Info("account registered", zap.Int("account_id", acc.ID), zap.String("email", acc.Email))
	return acc, nil
}

// Login — порядок проверок фиксирован: существует → active → verified → пароль.
func (s *accountService) Login(email, password string) (*LoginResult, error) {
	acc, err := s.repo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, ErrAccountInactive
	}
	if !acc.Verified {
		return nil, ErrAccountNotVerified
	}
	if !s.auth.CheckPassword(acc.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.IssuePair(acc)
	if err != nil {
		return nil, err
	}

	s.log.Info("login ok", zap.Int("account_id", acc.ID), zap.String("role", acc.Role))
	return &LoginResult{Account: acc, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *accountService) VerifyCode(email, code string) error {
	acc, err := s.repo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	if acc.Verified {
		return ErrAlreadyVerified
	}
	if err := checkCode(acc.VerificationCode, code); err != nil {
		return err
	}
	// verified + очистка кода — одним UPDATE
	return s.repo.MarkVerified(acc.ID)
}

// checkCode — общая лестница проверок для обоих назначений кода.
func checkCode(c models.OneShotCode, supplied string) error {
	if !c.Pending() {
		return ErrNoCodePending
	}
	if c.Expired(time.Now()) {
		return ErrCodeExpired
	}
	if !c.Matches(strings.TrimSpace(supplied)) {
		return ErrCodeInvalid
	}
	return nil
}

func (s *accountService) ResendCode(email string) error {
	acc, err := s.repo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	if acc.Verified {
		return ErrAlreadyVerified
	}

	since := time.Now().Add(-resendWindow)
	cnt, err := s.repo.CountRecentCodeSends(acc.ID, models.PurposeVerification, since)
	if err != nil {
		return err
	}
	if cnt >= maxResendsPerWindow {
		return ErrResendThrottled
	}

	code := generateCode()
	if err := s.repo.SetCode(acc.ID, models.PurposeVerification, code, time.Now().Add(CodeTTL)); err != nil {
		return err
	}
	if err := s.repo.RecordCodeSend(acc.ID, models.PurposeVerification, time.Now()); err != nil {
		s.log.Warn("code send journal failed", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	if err := s.emails.SendVerificationCode(acc.Email, acc.Name, code); err != nil {
		s.log.Warn("resend verification email failed", zap.String("email", acc.Email), zap.Error(err))
		return ErrEmailSendFailed
	}
	return nil
}

func (s *accountService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrTokenInvalid
	}

	// сверяемся с живой записью: отключённый аккаунт не получает новый access,
	// а claims берутся из текущей роли/почты, не из снимка в refresh
	acc, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return "", err
	}
	if acc == nil || !acc.Active {
		return "", ErrTokenInvalid
	}

	return s.tokens.IssueAccessToken(acc)
}

func (s *accountService) GetByID(id int) (*models.Account, error) {
	return s.repo.GetByID(id)
}

func (s *accountService) GetByEmail(email string) (*models.Account, error) {
	return s.repo.GetByEmail(normalizeEmail(email))
}

func (s *accountService) List(limit, offset int) ([]*models.Account, error) {
	return s.repo.List(limit, offset)
}

func (s *accountService) UpdateProfile(acc *models.Account) error {
	return s.repo.Update(acc)
}

func (s *accountService) UpdateRole(id int, role string) error {
	if !authz.ValidRole(role) {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(id, role)
}

func (s *accountService) SetActive(id int, active bool) error {
	return s.repo.SetActive(id, active)
}

func (s *accountService) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *accountService) GetCount() (int, error) {
	return s.repo.GetCount()
}

func (s *accountService) GetCountByRole(role string) (int, error) {
	return s.repo.GetCountByRole(role)
}

func (s *accountService) LinkTelegramChat(userID int, chatID int64) error {
	return s.repo.UpdateTelegramChat(userID, chatID)
}
