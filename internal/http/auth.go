package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const identityKey contextKey = "identity"

// Identity caller as asserted by the upstream gateway.
type Identity struct {
	UserID string
	Role   string
}

func identityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// HeaderAuthorizer implements the super-admin check from X-User-Id / X-User-Role.
// Session handling lives upstream; this only enforces the role contract.
type HeaderAuthorizer struct {
	roles  map[string]bool
	logger *zap.Logger
}

func NewHeaderAuthorizer(superAdminRoles []string, logger *zap.Logger) *HeaderAuthorizer {
	roles := make(map[string]bool, len(superAdminRoles))
	for _, r := range superAdminRoles {
		roles[strings.ToLower(strings.TrimSpace(r))] = true
	}
	return &HeaderAuthorizer{roles: roles, logger: logger}
}

// RequireSuperAdmin rejects with 401 when no identity is present and 403 when
// the role is not a super-admin role.
func (a *HeaderAuthorizer) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
		role := strings.TrimSpace(r.Header.Get("X-User-Role"))
		if userID == "" || role == "" {
			writeJSON(w, http.StatusUnauthorized, Fail("Authentication required"))
			return
		}
		if !a.roles[strings.ToLower(role)] {
			a.logger.Warn("super admin access denied",
				zap.String("user_id", userID),
				zap.String("role", role),
				zap.String("path", r.URL.Path),
			)
			writeJSON(w, http.StatusForbidden, Fail("Access denied. Super admin privileges required."))
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, Identity{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
