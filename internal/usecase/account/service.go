// Package account handles marketplace registration and login.
package account

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Service handles account registration and credential checks.
type Service struct {
	repo Repository
}

// New creates an account service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries the registration fields for both roles.
type RegisterInput struct {
	Type         domain.AccountType
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Phone        string
	BusinessName string
}

// Register creates a new seeker or provider account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	in.Email = normalizeEmail(in.Email)

	switch {
	case !in.Type.Valid():
		return domain.Account{}, fmt.Errorf("account type must be seeker or provider: %w", domain.ErrInvalidInput)
	case in.Email == "":
		return domain.Account{}, fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	case in.Password == "":
		return domain.Account{}, fmt.Errorf("password is required: %w", domain.ErrInvalidInput)
	case in.FirstName == "":
		return domain.Account{}, fmt.Errorf("first name is required: %w", domain.ErrInvalidInput)
	}

	a := domain.Account{
		Type:         in.Type,
		Email:        in.Email,
		PasswordHash: hashPassword(in.Password),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		BusinessName: in.BusinessName,
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

// Login checks credentials and returns the matching account.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Account, error) {
	a, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.Account{}, domain.ErrInvalidCredentials
	}

	want := []byte(a.PasswordHash)
	got := []byte(hashPassword(password))
	if subtle.ConstantTimeCompare(want, got) != 1 {
		return domain.Account{}, domain.ErrInvalidCredentials
	}
	return a, nil
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
