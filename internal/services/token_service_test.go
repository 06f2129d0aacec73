package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/internal/models"
)

func newTestTokens() TokenService {
	return NewTokenService("access-secret", "refresh-secret", "vetclinic", "vetclinic-api")
}

func testAccount() *models.Account {
	return &models.Account{
		ID:    7,
		Email: "ana@gmail.com",
		Role:  models.RoleVeterinarian,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokens()

	token, err := svc.IssueAccessToken(testAccount())
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ana@gmail.com", claims.Email)
	assert.Equal(t, models.RoleVeterinarian, claims.Role)
	assert.Equal(t, TokenKindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenKindsDoNotCross(t *testing.T) {
	svc := newTestTokens()
	acc := testAccount()

	access, err := svc.IssueAccessToken(acc)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(acc)
	require.NoError(t, err)
	recovery, err := svc.IssueRecoveryToken(acc.Email)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.VerifyAccessToken(recovery)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.VerifyRecoveryToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	svc := newTestTokens()

	refresh, err := svc.IssueRefreshToken(testAccount())
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
	assert.Equal(t, 7, claims.UserID)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestTokens().(*tokenService)

	token, err := svc.issue(TokenKindAccess, 1, "a@gmail.com", models.RolePatient, -time.Minute, svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := newTestTokens().IssueAccessToken(testAccount())
	require.NoError(t, err)

	other := NewTokenService("other-secret", "refresh-secret", "vetclinic", "vetclinic-api")
	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuerAndAudienceChecked(t *testing.T) {
	token, err := newTestTokens().IssueAccessToken(testAccount())
	require.NoError(t, err)

	badIssuer := NewTokenService("access-secret", "refresh-secret", "someone-else", "vetclinic-api")
	_, err = badIssuer.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	badAudience := NewTokenService("access-secret", "refresh-secret", "vetclinic", "other-api")
	_, err = badAudience.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuePair(t *testing.T) {
	svc := newTestTokens()

	access, refresh, err := svc.IssuePair(testAccount())
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	_, err = svc.VerifyAccessToken(access)
	assert.NoError(t, err)
	_, err = svc.VerifyRefreshToken(refresh)
	assert.NoError(t, err)
}
