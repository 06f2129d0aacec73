package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vetclinic/internal/models"
)

// Вид токена кладём в отдельный claim и проверяем после подписи:
// refresh никогда не принимается там, где ждут access, и наоборот.
const (
	TokenKindAccess   = "access"
	TokenKindRefresh  = "refresh"
	TokenKindRecovery = "recovery" // continuation-токен восстановления пароля

	AccessTokenTTL   = 15 * time.Minute
	RefreshTokenTTL  = 7 * 24 * time.Hour
	RecoveryTokenTTL = 10 * time.Minute
)

// ErrTokenInvalid — единый ответ на любую проблему с токеном (подпись, срок,
// issuer, audience, не тот вид). Детали наружу не отдаём.
var ErrTokenInvalid = errors.New("invalid token")

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	Kind   string `json:"tkn"`
	jwt.RegisteredClaims
}

type TokenService interface {
	IssueAccessToken(acc *models.Account) (string, error)
	IssueRefreshToken(acc *models.Account) (string, error)
	IssuePair(acc *models.Account) (access, refresh string, err error)
	IssueRecoveryToken(email string) (string, error)

	VerifyAccessToken(token string) (*Claims, error)
	VerifyRefreshToken(token string) (*Claims, error)
	VerifyRecoveryToken(token string) (*Claims, error)
}

type tokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
}

func NewTokenService(accessSecret, refreshSecret, issuer, audience string) TokenService {
	return &tokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		audience:      audience,
	}
}

func (s *tokenService) issue(kind string, userID int, email, role string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *tokenService) IssueAccessToken(acc *models.Account) (string, error) {
	return s.issue(TokenKindAccess, acc.ID, acc.Email, acc.Role, AccessTokenTTL, s.accessSecret)
}

func (s *tokenService) IssueRefreshToken(acc *models.Account) (string, error) {
	// в refresh роль не кладём: при обмене она берётся из актуальной записи
	return s.issue(TokenKindRefresh, acc.ID, acc.Email, "", RefreshTokenTTL, s.refreshSecret)
}

func (s *tokenService) IssuePair(acc *models.Account) (string, string, error) {
	access, err := s.IssueAccessToken(acc)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.IssueRefreshToken(acc)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *tokenService) IssueRecoveryToken(email string) (string, error) {
	return s.issue(TokenKindRecovery, 0, email, "", RecoveryTokenTTL, s.accessSecret)
}

func (s *tokenService) verify(token, kind string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *tokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.verify(token, TokenKindAccess, s.accessSecret)
}

func (s *tokenService) VerifyRefreshToken(token string) (*Claims, error) {
	return s.verify(token, TokenKindRefresh, s.refreshSecret)
}

func (s *tokenService) VerifyRecoveryToken(token string) (*Claims, error) {
	return s.verify(token, TokenKindRecovery, s.accessSecret)
}
