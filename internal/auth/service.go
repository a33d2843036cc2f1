package auth

import (
	"greenvest-backend/internal/domain"
	"greenvest-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles registration and login.
type Service struct {
	DB *gorm.DB
	// StartingBalance is the virtual cash credited on registration.
	StartingBalance float64
	// AdminEmail registers with the admin role.
	AdminEmail string
}

// RegisterInput for registration request body.
type RegisterInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates input, hashes the password, and creates the user with
// the configured starting balance as both cash and initial portfolio value.
func (s *Service) Register(input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !validation.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidFullname(input.Fullname) {
		return nil, ErrInvalidFullname
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	var existing domain.User
	err := s.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RolePlayer
	if s.AdminEmail != "" && input.Email == s.AdminEmail {
		role = domain.RoleAdmin
	}

	user := domain.User{
		Fullname:       input.Fullname,
		Email:          input.Email,
		PasswordHash:   string(hash),
		Role:           role,
		CashBalance:    s.StartingBalance,
		PortfolioValue: s.StartingBalance,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login finds the user by email and verifies the password.
func (s *Service) Login(input LoginInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u domain.User
	if err := s.DB.Where("email = ?", input.Email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}
