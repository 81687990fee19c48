package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

const (
	msgNoCredentials = "Invalid Authorization header. No credentials provided."
	msgBadHeader     = "Invalid Authorization header. Credentials string should not contain spaces."
	msgBadToken      = "Given token not valid for any token type"
	msgUserNotFound  = "User not found"
	msgUserInactive  = "User is inactive"
)

// Principal represents the authenticated caller.
type Principal struct {
	AccountID string
	Username  string
	IsStaff   bool
	TokenID   string
}

// AuthMiddleware resolves bearer tokens into principals. It never rejects a
// request for lacking a token; route policies decide that.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
	recheck  bool
}

// NewAuthMiddleware constructs middleware. With recheck set every request
// reloads the account and uses its current staff flag instead of the claim.
func NewAuthMiddleware(tokens *TokenManager, accounts repository.AccountRepository, recheck bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts, recheck: recheck}
}

// Handle attaches a Principal when a valid bearer token is present.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.Fields(authHeader)
	if len(parts) == 0 || !strings.EqualFold(parts[0], "Bearer") {
		// Other schemes belong to other authenticators.
		return c.Next()
	}
	switch len(parts) {
	case 1:
		return apperrors.NewUnauthorized(msgNoCredentials)
	case 2:
	default:
		return apperrors.NewUnauthorized(msgBadHeader)
	}

	claims, err := m.tokens.Parse(parts[1], domain.TokenTypeAccess)
	if err != nil {
		return apperrors.NewUnauthorized(msgBadToken)
	}

	principal := &Principal{AccountID: claims.Subject, IsStaff: claims.IsStaff, TokenID: claims.ID}
	if m.recheck {
		account, err := m.accounts.GetByID(c.UserContext(), claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewUnauthorized(msgUserNotFound)
			}
			return apperrors.MapError(err)
		}
		if !account.IsActive {
			return apperrors.NewUnauthorized(msgUserInactive)
		}
		principal.Username = account.Username
		principal.IsStaff = account.IsStaff
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
