package service

import (
	"context"
	"errors"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

const (
	msgNoActiveAccount  = "No active account found with the given credentials"
	msgAdminOnlyLogin   = "Only admin are allowed to log in."
	msgTokenInvalid     = "Token is invalid or expired"
	msgTokenBlacklisted = "Token is blacklisted"
)

// LoginCheck runs after credentials are verified and may veto token issuance.
type LoginCheck func(account *domain.Account) error

// RequireStaff bars non-staff accounts from obtaining tokens.
func RequireStaff(account *domain.Account) error {
	if !account.IsStaff {
		return apperrors.NewUnauthorized(msgAdminOnlyLogin)
	}
	return nil
}

// AuthService coordinates login, refresh and refresh-token revocation.
type AuthService struct {
	accounts    repository.AccountRepository
	tokens      *auth.TokenManager
	revocations auth.RevocationList
	checks      []LoginCheck
	recheck     bool
	decoyHash   string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationList
}

// NewAuthService builds the service. Checks run in order after the password
// and active-account checks.
func NewAuthService(cfg config.Config, deps AuthDependencies, checks ...LoginCheck) *AuthService {
	// Cannot fail: the cost is clamped and the password is short.
	decoy, _ := auth.DecoyHash(cfg.Auth.BcryptCost)
	return &AuthService{
		accounts:    deps.AccountRepo,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		checks:      checks,
		recheck:     cfg.Auth.RecheckStaff,
		decoyHash:   decoy,
	}
}

// Login verifies credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.BurnPasswordCheck(s.decoyHash, password)
			return domain.TokenPair{}, apperrors.NewUnauthorized(msgNoActiveAccount)
		}
		return domain.TokenPair{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return domain.TokenPair{}, apperrors.NewUnauthorized(msgNoActiveAccount)
	}
	if !account.IsActive {
		return domain.TokenPair{}, apperrors.NewUnauthorized(msgNoActiveAccount)
	}
	if err := s.runChecks(account); err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(account)
	if err != nil {
		return domain.TokenPair{}, apperrors.NewInternalError(err)
	}
	return pair, nil
}

// Refresh redeems a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (domain.Token, error) {
	claims, err := s.redeemable(ctx, refresh)
	if err != nil {
		return domain.Token{}, err
	}

	isStaff := claims.IsStaff
	if s.recheck {
		account, err := s.accounts.GetByID(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Token{}, apperrors.NewUnauthorized(msgNoActiveAccount)
			}
			return domain.Token{}, apperrors.MapError(err)
		}
		if !account.IsActive {
			return domain.Token{}, apperrors.NewUnauthorized(msgNoActiveAccount)
		}
		if err := s.runChecks(account); err != nil {
			return domain.Token{}, err
		}
		isStaff = account.IsStaff
	}

	access, err := s.tokens.Issue(domain.TokenTypeAccess, claims.Subject, isStaff)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return access, nil
}

// Revoke blacklists a refresh token until it would have expired anyway.
func (s *AuthService) Revoke(ctx context.Context, refresh string) error {
	claims, err := s.redeemable(ctx, refresh)
	if err != nil {
		return err
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) redeemable(ctx context.Context, refresh string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(refresh, domain.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.NewUnauthorized(msgTokenInvalid)
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized(msgTokenBlacklisted)
	}
	return claims, nil
}

func (s *AuthService) runChecks(account *domain.Account) error {
	for _, check := range s.checks {
		if err := check(account); err != nil {
			return err
		}
	}
	return nil
}
