package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognised in tokens, highest privilege first
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleViewer     = "viewer"
)

// Claims is the dashboard user extracted from a token
type Claims struct {
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Groups []string `json:"groups"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the user may trigger syncs
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

type contextKey string

// UserContextKey holds the *Claims of the authenticated user
const UserContextKey contextKey = "user"

// GetUserFromContext retrieves user claims from request context
func GetUserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	return claims, ok
}

// WithUser returns a copy of ctx carrying claims
func WithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func devUser() *Claims {
	return &Claims{
		Email:  "dev@dashboard.local",
		Name:   "Dev User",
		Role:   RoleAdmin,
		Groups: []string{"developers", "dashboard-admins"},
	}
}

// claimsFromMap builds Claims from a decoded token payload
func claimsFromMap(m jwt.MapClaims) *Claims {
	claims := &Claims{}

	if email, ok := m["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := m["name"].(string); ok {
		claims.Name = name
	} else if username, ok := m["preferred_username"].(string); ok {
		claims.Name = username
	}
	if sub, ok := m["sub"].(string); ok {
		claims.Subject = sub
	}

	claims.Groups = stringList(m["groups"])
	claims.Role = roleFrom(m, claims.Groups)
	return claims
}

// roleFrom checks Keycloak realm roles first, then group names
func roleFrom(m jwt.MapClaims, groups []string) string {
	if realmAccess, ok := m["realm_access"].(map[string]any); ok {
		roles := stringList(realmAccess["roles"])
		for _, want := range []string{RoleAdmin, RoleSupervisor, RoleViewer} {
			for _, role := range roles {
				if role == want {
					return role
				}
			}
		}
	}

	for _, want := range []string{RoleAdmin, RoleSupervisor} {
		for _, group := range groups {
			if strings.Contains(strings.ToLower(group), want) {
				return want
			}
		}
	}
	return RoleViewer
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
