package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cookmate/backend/config"
	"github.com/cookmate/backend/internal/middleware"
	"github.com/cookmate/backend/internal/model"
)

// TokenPair is the result of a successful login, registration or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	db              *gorm.DB
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		db:              db,
		jwtSecret:       cfg.JWTSecret,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

func (s *AuthService) Register(name, email, password string) (*TokenPair, error) {
	if name == "" || email == "" || len(password) < 6 {
		return nil, fmt.Errorf("%w: name, email and a password of at least 6 characters are required", ErrInvalidInput)
	}

	var existing model.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: user with this email", ErrAlreadyExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issueTokens(&user)
}

func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthenticated
	}

	return s.issueTokens(&user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Expired or unknown tokens fail closed.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	var stored model.RefreshToken
	if err := s.db.Where("token = ?", refreshToken).First(&stored).Error; err != nil {
		return nil, ErrUnauthenticated
	}
	if time.Now().After(stored.ExpiresAt) {
		s.db.Delete(&model.RefreshToken{}, stored.ID)
		return nil, ErrUnauthenticated
	}

	var user model.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		return nil, ErrUnauthenticated
	}

	if err := s.db.Delete(&model.RefreshToken{}, stored.ID).Error; err != nil {
		return nil, err
	}
	return s.issueTokens(&user)
}

// Logout revokes a refresh token by deleting its row.
func (s *AuthService) Logout(refreshToken string) error {
	result := s.db.Where("token = ?", refreshToken).Delete(&model.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	claims := jwt.MapClaims{
		"user_id": float64(user.ID),
		"role":    user.Role,
		"exp":     time.Now().Add(s.accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	refresh := model.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}
	if err := s.db.Create(&refresh).Error; err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)

	return &middleware.TokenClaims{
		UserID: uint(userID),
		Role:   role,
	}, nil
}
