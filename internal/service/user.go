package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService owns user identity and credential verification.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lower-cases the domain part of an email address. The
// local part is preserved as given.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// CreateUser creates a user with a bcrypt-hashed password. The email
// domain is normalized to lower case before storage.
func (s *UserService) CreateUser(email, password, name string) (*models.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	email = NormalizeEmail(email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateSuperuser creates a user with staff and superuser flags set.
func (s *UserService) CreateSuperuser(email, password string) (*models.User, error) {
	user, err := s.CreateUser(email, password, "")
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user matching email and password. Empty
// passwords are always rejected.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CheckPassword verifies a raw password against the stored hash.
func (s *UserService) CheckPassword(user *models.User, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(raw)) == nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe updates name and/or password of the authenticated user. Nil
// fields are left untouched.
func (s *UserService) UpdateMe(userID uint, name, password *string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}
	if password != nil {
		if *password == "" {
			return nil, ErrPasswordRequired
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
