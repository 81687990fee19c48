package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

const accountResource = "account"

// AccountService provisions login accounts for the command line and the
// start-up admin bootstrap.
type AccountService struct {
	accounts   repository.AccountRepository
	bcryptCost int
}

// NewAccountService constructs the service.
func NewAccountService(cfg config.Config, accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts, bcryptCost: cfg.Auth.BcryptCost}
}

// Create registers an active account.
func (s *AccountService) Create(ctx context.Context, username, password string, isStaff bool) (*domain.Account, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	account := &domain.Account{
		Username:     username,
		PasswordHash: hash,
		IsStaff:      isStaff,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, mapStoreError(accountResource, err)
	}
	return account, nil
}

// SetPassword replaces the password of an existing account.
func (s *AccountService) SetPassword(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return mapStoreError(accountResource, err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	account.PasswordHash = hash
	return mapStoreError(accountResource, s.accounts.Update(ctx, account))
}

// EnsureStaff creates an active staff account unless the username is
// already taken. It reports whether an account was created.
func (s *AccountService) EnsureStaff(ctx context.Context, username, password string) (bool, error) {
	_, err := s.accounts.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, apperrors.MapError(err)
	}
	if _, err := s.Create(ctx, username, password, true); err != nil {
		return false, err
	}
	return true, nil
}

func validateCredentials(username, password string) error {
	fieldErrs := apperrors.FieldErrors{}
	if strings.TrimSpace(username) == "" {
		fieldErrs.Add("username", "This field may not be blank.")
	} else if utf8.RuneCountInString(username) > 150 {
		fieldErrs.Add("username", "Ensure this field has no more than 150 characters.")
	}
	if password == "" {
		fieldErrs.Add("password", "This field may not be blank.")
	}
	return fieldErrs.Err()
}
