package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService exchanges valid credentials for an opaque bearer token and
// resolves tokens back to users.
type TokenService struct {
	db    *gorm.DB
	users *UserService
}

func NewTokenService(db *gorm.DB, users *UserService) *TokenService {
	return &TokenService{db: db, users: users}
}

func generateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IssueToken verifies the credentials and returns the user's token,
// creating one if none exists yet.
func (s *TokenService) IssueToken(email, password string) (string, error) {
	user, err := s.users.Authenticate(email, password)
	if err != nil {
		return "", err
	}

	var token models.AuthToken
	err = s.db.Where("user_id = ?", user.ID).First(&token).Error
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}
	token = models.AuthToken{Key: key, UserID: user.ID}
	if err := s.db.Create(&token).Error; err != nil {
		return "", err
	}
	return token.Key, nil
}

// ResolveToken returns the user a bearer token belongs to. Tokens of
// inactive users do not resolve.
func (s *TokenService) ResolveToken(key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	var token models.AuthToken
	if err := s.db.Where("key = ?", key).First(&token).Error; err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.First(&user, token.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return &user, nil
}
