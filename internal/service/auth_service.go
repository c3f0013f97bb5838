package service

import (
	"strings"
	"time"

	"adria/internal/entities"
	apperrors "adria/internal/errors"
	"adria/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const SettingAdminPasswordHash = "admin_password_hash"

const (
	adminTokenTTL = time.Hour
	userTokenTTL  = 30 * 24 * time.Hour
)

type AuthService struct {
	Settings repository.SettingsRepository
	Users    UserStore
	secret   string
}

func NewAuthService(settings repository.SettingsRepository, users UserStore, secret string) *AuthService {
	return &AuthService{Settings: settings, Users: users, secret: secret}
}

// AdminLogin checks the shared admin password against the bcrypt hash kept
// in the settings table and mints a short-lived admin token.
func (s *AuthService) AdminLogin(password string) (string, error) {
	hash, err := s.Settings.Get(SettingAdminPasswordHash)
	if err != nil {
		return "", err
	}
	if hash == "" {
		return "", apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(adminTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// UserLogin registers or refreshes the user profile and mints a longer-lived
// user token carrying the profile claims.
func (s *AuthService) UserLogin(name, email string) (*entities.UserLoginResponse, error) {
	user, err := s.Users.Upsert(strings.ToLower(strings.TrimSpace(email)), name, uuid.NewString())
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"role":     "user",
		"email":    user.Email,
		"name":     user.Name,
		"group_id": user.GroupID,
		"exp":      time.Now().Add(userTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}
	return &entities.UserLoginResponse{
		Token:   signed,
		Name:    user.Name,
		Email:   user.Email,
		GroupID: user.GroupID,
	}, nil
}

// SeedAdminPassword stores the bcrypt hash of the given password on first
// boot. An already-seeded hash is left untouched.
func (s *AuthService) SeedAdminPassword(password string) error {
	existing, err := s.Settings.Get(SettingAdminPasswordHash)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Settings.Set(SettingAdminPasswordHash, string(hash))
}
