package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/storage"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongCredentials = errors.New("wrong credentials")
)

type AuthService struct {
	tokenService *TokenService
	userStore    storage.UserStore
	log          *zap.SugaredLogger
}

func NewAuthService(tokenService *TokenService, userStore storage.UserStore, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		tokenService: tokenService,
		userStore:    userStore,
		log:          log,
	}
}

// Login проверяет учетные данные и выпускает пару токенов.
// Неизвестный пользователь и неверный пароль - разные ошибки:
// контроллер отображает их в разные ответы.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	user, err := s.userStore.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		s.log.Infow("login rejected", "username", username)
		return nil, ErrWrongCredentials
	}

	accessToken, err := s.tokenService.IssueAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokenService.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh выпускает новый access токен. Refresh токен не ротируется
// и не инвалидируется.
func (s *AuthService) Refresh(subject string) (string, error) {
	accessToken, err := s.tokenService.IssueAccessToken(subject)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// SeedExampleUsers вставляет тестовых пользователей (как в дев-режиме
// исходного сервиса).
func SeedExampleUsers(ctx context.Context, seeder storage.UserSeeder, log *zap.SugaredLogger) error {
	exampleUsers := [][2]string{
		{"hermione", "granger"},
		{"ron", "weasley"},
		{"nevil", "longbottom"},
	}

	for _, u := range exampleUsers {
		hash, err := HashPassword(u[1])
		if err != nil {
			return err
		}
		if _, err := seeder.SaveUser(ctx, u[0], hash); err != nil {
			return fmt.Errorf("seed user %s: %w", u[0], err)
		}
	}
	log.Infof("Seeded %d example users", len(exampleUsers))
	return nil
}
