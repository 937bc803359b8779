package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-journal-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore persists accounts
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User        models.AccountSummary
	AccessToken string
}

// UserService handles registration, login and profile lookup
type UserService struct {
	accounts AccountStore
	tokens   *TokenService
	cost     int
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(accounts AccountStore, tokens *TokenService) *UserService {
	return &UserService{
		accounts: accounts,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Register creates an account and returns a token for it
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	if isBlank(fullName) || isBlank(email) || isBlank(password) {
		return nil, fmt.Errorf("full name, email and password are required: %w", models.ErrValidation)
	}

	// Reject taken emails before hashing
	_, err := s.accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email %s: %w", email, models.ErrConflict)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("password too long: %w", models.ErrValidation)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedOn:    s.now().UTC(),
	}

	// A concurrent registration surfaces here as models.ErrConflict
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authenticate(account)
}

// Login checks the password and returns a fresh token
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if isBlank(email) || isBlank(password) {
		return nil, fmt.Errorf("email and password are required: %w", models.ErrValidation)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.authenticate(account)
}

// GetProfile returns the account behind a verified token subject
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Account, error) {
	// Subjects are always account uuids; anything else can not resolve
	if len(userID) != 36 || uuid.Validate(userID) != nil {
		return nil, fmt.Errorf("user %q: %w", userID, models.ErrUnauthorized)
	}

	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return account, nil
}

func (s *UserService) authenticate(account *models.Account) (*AuthResult, error) {
	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: account.Summary(), AccessToken: token}, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
