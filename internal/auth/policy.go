package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// Policy names the authorization predicate guarding a route.
type Policy string

const (
	// AllowAny lets every caller through.
	AllowAny Policy = "AllowAny"
	// AdminOnly requires an authenticated staff caller.
	AdminOnly Policy = "AdminOnly"
	// StaffMutatesElseRead opens safe methods to everyone and restricts the rest to staff.
	StaffMutatesElseRead Policy = "StaffMutatesElseRead"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgNoPermission     = "You do not have permission to perform this action."
)

// Authorize decides whether principal may call a route with the given method.
// A nil principal is an anonymous caller.
func (p Policy) Authorize(method string, principal *Principal) error {
	if !p.RequiresStaff(method) {
		return nil
	}
	if principal == nil {
		return apperrors.NewUnauthorized(msgNotAuthenticated)
	}
	if !principal.IsStaff {
		return apperrors.NewForbidden(msgNoPermission)
	}
	return nil
}

// RequiresStaff reports whether method is restricted to staff under p.
func (p Policy) RequiresStaff(method string) bool {
	switch p {
	case AdminOnly:
		return true
	case StaffMutatesElseRead:
		return !isSafeMethod(method)
	default:
		return false
	}
}

// Handler returns middleware enforcing p against the resolved principal.
func (p Policy) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := p.Authorize(c.Method(), principal); err != nil {
			return err
		}
		return c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}
