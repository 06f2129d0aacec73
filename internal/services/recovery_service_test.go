package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vetclinic/internal/models"
)

var testDomains = []string{"gmail.com", "hotmail.com", "outlook.com", "yahoo.com"}

func newRecoveryService(repo *mockAccountRepo, emails *mockEmailService) RecoveryService {
	return NewRecoveryService(repo, fakeAuth{}, newTestTokens(), emails, testDomains, zap.NewNop())
}

func accountWithRecoveryCode(code string, expiresIn time.Duration) *models.Account {
	acc := verifiedAccount()
	acc.RecoveryCode = pendingCode(code, expiresIn)
	return acc
}

func TestRequestRecoveryDomainNotAllowed(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))

	err := svc.RequestRecovery("ana@empresa.com")
	assert.ErrorIs(t, err, ErrDomainNotAllowed)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything)
}

func TestRequestRecoveryUnknownEmail(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))
	repo.On("GetByEmail", "nadie@gmail.com").Return(nil, nil).Once()

	// существование аккаунта здесь раскрывается намеренно
	err := svc.RequestRecovery("nadie@gmail.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRequestRecoveryInactiveAccount(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))

	acc := verifiedAccount()
	acc.Active = false
	repo.On("GetByEmail", "ana@gmail.com").Return(acc, nil).Once()

	err := svc.RequestRecovery("ana@gmail.com")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRequestRecoveryThrottled(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))

	repo.On("GetByEmail", "ana@gmail.com").Return(verifiedAccount(), nil).Once()
	repo.On("CountRecentCodeSends", 3, models.PurposeRecovery, mock.AnythingOfType("time.Time")).
		Return(maxResendsPerWindow, nil).Once()

	err := svc.RequestRecovery("ana@gmail.com")
	assert.ErrorIs(t, err, ErrResendThrottled)
	repo.AssertNotCalled(t, "SetCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRecoveryClearsCodeOnEmailFailure(t *testing.T) {
	repo := new(mockAccountRepo)
	emails := new(mockEmailService)
	svc := newRecoveryService(repo, emails)

	repo.On("GetByEmail", "ana@gmail.com").Return(verifiedAccount(), nil).Once()
	repo.On("CountRecentCodeSends", 3, models.PurposeRecovery, mock.Anything).Return(0, nil).Once()
	repo.On("SetCode", 3, models.PurposeRecovery, mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("RecordCodeSend", 3, models.PurposeRecovery, mock.Anything).Return(nil).Once()
	emails.On("SendRecoveryCode", "ana@gmail.com", mock.Anything).Return(assert.AnError).Once()
	repo.On("ClearCode", 3, models.PurposeRecovery).Return(nil).Once()

	err := svc.RequestRecovery("ana@gmail.com")
	assert.ErrorIs(t, err, ErrEmailSendFailed)
	repo.AssertExpectations(t)
}

func TestRequestRecoverySuccess(t *testing.T) {
	repo := new(mockAccountRepo)
	emails := new(mockEmailService)
	svc := newRecoveryService(repo, emails)

	repo.On("GetByEmail", "ana@gmail.com").Return(verifiedAccount(), nil).Once()
	repo.On("CountRecentCodeSends", 3, models.PurposeRecovery, mock.Anything).Return(0, nil).Once()
	repo.On("SetCode", 3, models.PurposeRecovery, mock.MatchedBy(func(code string) bool {
		return len(code) == 6
	}), mock.Anything).Return(nil).Once()
	repo.On("RecordCodeSend", 3, models.PurposeRecovery, mock.Anything).Return(nil).Once()
	emails.On("SendRecoveryCode", "ana@gmail.com", mock.Anything).Return(nil).Once()

	assert.NoError(t, svc.RequestRecovery("Ana@Gmail.com"))
	repo.AssertExpectations(t)
}

func TestVerifyRecoveryCodeIssuesContinuationToken(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))

	repo.On("GetByEmail", "ana@gmail.com").Return(accountWithRecoveryCode("123456", time.Minute), nil).Once()

	token, err := svc.VerifyRecoveryCode("ana@gmail.com", "123456")
	require.NoError(t, err)

	claims, err := newTestTokens().VerifyRecoveryToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@gmail.com", claims.Email)

	// код не гасится на этом шаге — его потребляет сам сброс
	repo.AssertNotCalled(t, "ClearCode", mock.Anything, mock.Anything)
}

func TestVerifyRecoveryCodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		acc     *models.Account
		code    string
		wantErr error
	}{
		{"unknown email", nil, "123456", ErrAccountNotFound},
		{"no code pending", verifiedAccount(), "123456", ErrNoCodePending},
		{"expired", accountWithRecoveryCode("123456", -time.Minute), "123456", ErrCodeExpired},
		{"wrong code", accountWithRecoveryCode("123456", time.Minute), "000000", ErrCodeInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockAccountRepo)
			svc := newRecoveryService(repo, new(mockEmailService))
			repo.On("GetByEmail", "ana@gmail.com").Return(tc.acc, nil).Once()

			_, err := svc.VerifyRecoveryCode("ana@gmail.com", tc.code)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestResetPasswordPolicy(t *testing.T) {
	// только буквы и цифры, не короче 8
	for _, pw := range []string{"corto1", "tiene espacios1", "conSimbolo1!"} {
		repo := new(mockAccountRepo)
		svc := newRecoveryService(repo, new(mockEmailService))
		repo.On("GetByEmail", "ana@gmail.com").Return(accountWithRecoveryCode("123456", time.Minute), nil).Once()

		err := svc.ResetPassword("ana@gmail.com", "123456", pw)
		assert.ErrorIs(t, err, ErrWeakPassword, "password %q", pw)
		repo.AssertNotCalled(t, "UpdatePasswordAndClearCode", mock.Anything, mock.Anything)
	}
}

func TestResetPasswordRejectsSamePassword(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))
	repo.On("GetByEmail", "ana@gmail.com").Return(accountWithRecoveryCode("123456", time.Minute), nil).Once()

	err := svc.ResetPassword("ana@gmail.com", "123456", "Passw0rd")
	assert.ErrorIs(t, err, ErrSamePassword)
	repo.AssertNotCalled(t, "UpdatePasswordAndClearCode", mock.Anything, mock.Anything)
}

func TestResetPasswordReValidatesCode(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newRecoveryService(repo, new(mockEmailService))
	repo.On("GetByEmail", "ana@gmail.com").Return(accountWithRecoveryCode("123456", time.Minute), nil).Once()

	err := svc.ResetPassword("ana@gmail.com", "999999", "NuevaClave9")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestResetPasswordSuccess(t *testing.T) {
	repo := new(mockAccountRepo)
	emails := new(mockEmailService)
	svc := newRecoveryService(repo, emails)

	repo.On("GetByEmail", "ana@gmail.com").Return(accountWithRecoveryCode("123456", time.Minute), nil).Once()
	repo.On("UpdatePasswordAndClearCode", 3, "hashed:NuevaClave9").Return(nil).Once()
	// подтверждение по почте — best effort: его сбой не роняет сброс
	emails.On("SendPasswordChanged", "ana@gmail.com").Return(assert.AnError).Once()

	assert.NoError(t, svc.ResetPassword("ana@gmail.com", "123456", "NuevaClave9"))
	repo.AssertExpectations(t)
	emails.AssertExpectations(t)
}
