package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Tenant is the organization and actor a request runs for.
type Tenant struct {
	OrganizationID string
	Actor          user.Actor
}

type tenantKey struct{}

func WithTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantKey{}, t)
}

func TenantFromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantKey{}).(Tenant)
	return t, ok
}

// TenantFromClaims builds the Tenant carried by verified token claims.
func TenantFromClaims(c jwt.Claims) (Tenant, error) {
	if c.OrganizationID == "" {
		return Tenant{}, user.ErrOrganizationIDRequired
	}
	if !c.Role.IsValid() {
		return Tenant{}, user.ErrInvalidRole
	}

	t := Tenant{
		OrganizationID: c.OrganizationID,
		Actor: user.Actor{
			UserID: c.UserID,
			Role:   c.Role,
		},
	}
	if c.EmployeeID != nil {
		t.Actor.EmployeeID = *c.EmployeeID
	}
	return t, nil
}

// RequireTenant lifts organization, employee and role out of the token claims.
// Handlers read them with TenantFromContext and pass them down explicitly.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		c, err := jwt.ClaimsFromMap(claims)
		if err != nil {
			response.HandleError(w, user.ErrOrganizationIDRequired)
			return
		}

		tenant, err := TenantFromClaims(c)
		if err != nil {
			if errors.Is(err, user.ErrInvalidRole) {
				response.Forbidden(w, "Invalid role")
				return
			}
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
	})
}
