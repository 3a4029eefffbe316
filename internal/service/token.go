package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/util"
)

var (
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrWrongTokenType       = errors.New("wrong token type")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// TokenService issues and validates self-contained signed tokens.
// It holds no per-token state: a token stays valid until natural expiry.
type TokenService struct {
	jwtSecretKey []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewTokenService(cfg *util.TokenConfig) *TokenService {
	return &TokenService{
		jwtSecretKey: cfg.JwtSecretKey,
		accessTTL:    cfg.AccessTTL,
		refreshTTL:   cfg.RefreshTTL,
	}
}

type jwtClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// IssueAccessToken создает SHA512 signed access токен
func (ts *TokenService) IssueAccessToken(subject string) (string, error) {
	return ts.issue(subject, models.TokenTypeAccess, ts.accessTTL)
}

// IssueRefreshToken создает SHA512 signed refresh токен
func (ts *TokenService) IssueRefreshToken(subject string) (string, error) {
	return ts.issue(subject, models.TokenTypeRefresh, ts.refreshTTL)
}

func (ts *TokenService) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(ts.jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}

	return signedToken, nil
}

// Validate проверяет подпись, срок действия и тип токена.
// Токен не того типа отклоняется так же жестко, как и поддельный.
func (ts *TokenService) Validate(token, requiredType string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(util.JWTLeeWay),
		jwt.WithExpirationRequired(),
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		&jwtClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, ErrInvalidSigningMethod
			}
			return ts.jwtSecretKey, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %s", ErrTokenInvalid, err)
	}

	if parsedToken == nil || !parsedToken.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(*jwtClaims)
	if !ok || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	if claims.TokenType != requiredType {
		return "", ErrWrongTokenType
	}

	return claims.Subject, nil
}
