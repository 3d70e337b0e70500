package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/smartcity/staff-service/internal/domain"
	"github.com/smartcity/staff-service/internal/repository"
	apperrors "github.com/smartcity/staff-service/pkg/util"
)

const (
	principalKey  = "auth_principal"
	credentialKey = "auth_credential"
)

// Principal represents the authenticated caller.
type Principal struct {
	Staff *domain.Staff
	Roles []string
}

// AuthMiddleware validates bearer tokens and loads the staff principal.
// The raw token string is retained alongside the principal: the service
// layer forwards it to the location service, so it is captured exactly once
// here and threaded explicitly from then on.
type AuthMiddleware struct {
	tokens *TokenManager
	staff  repository.StaffRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, staff repository.StaffRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, staff: staff}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewInvalidCredential("authorization header is not a bearer credential")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewInvalidCredential("invalid token")
	}

	staff, err := m.staff.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthenticated("staff not found")
		}
		return apperrors.MapError(err)
	}
	if !staff.IsActive {
		return apperrors.NewUnauthenticated("staff inactive")
	}

	c.Locals(principalKey, &Principal{Staff: staff, Roles: claims.Roles})
	c.Locals(credentialKey, parts[1])
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated staff principal.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// CredentialFromContext retrieves the caller's raw bearer token for
// propagation to downstream services.
func CredentialFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(credentialKey)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}
