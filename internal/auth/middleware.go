// Package auth validates OIDC bearer tokens for the dashboard API.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var (
	// ErrMissingToken is returned when a request carries no bearer token
	ErrMissingToken = errors.New("missing token")
	// ErrTokenExpired is returned for an unverified token past its exp claim
	ErrTokenExpired = errors.New("token expired")
)

// Config controls token validation
type Config struct {
	// Enabled turns validation on; when off every request runs as a dev admin
	Enabled bool
	// VerifySignature checks tokens against the issuer's JWKS
	VerifySignature bool
	OIDCIssuer      string
}

// Authenticator validates tokens and attaches Claims to requests
type Authenticator struct {
	cfg    Config
	logger zerolog.Logger

	jwksOnce sync.Once
	jwks     keyfunc.Keyfunc
	jwksErr  error

	now func() time.Time
}

// New creates an Authenticator
func New(cfg Config, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		cfg:    cfg,
		logger: logger.With().Str("component", "auth").Logger(),
		now:    time.Now,
	}
}

// Middleware validates the bearer token of every request except health and
// metrics probes
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		if !a.cfg.Enabled {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), devUser())))
			return
		}

		tokenString := extractToken(r)
		if tokenString == "" {
			a.logger.Debug().Str("path", r.URL.Path).Msg("missing authorization token")
			writeError(w, http.StatusUnauthorized, ErrMissingToken)
			return
		}

		claims, err := a.Validate(tokenString)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("token validation failed")
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		a.logger.Debug().Str("email", claims.Email).Str("role", claims.Role).Msg("user authenticated")
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
	})
}

// RequireAdmin rejects requests whose user is not an admin
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, errors.New("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Validate parses tokenString, verifying its signature when configured
func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	var (
		token *jwt.Token
		err   error
	)

	if a.cfg.VerifySignature {
		kf, kerr := a.keyfunc()
		if kerr != nil {
			return nil, kerr
		}
		token, err = jwt.Parse(tokenString, kf, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}))
		if err != nil {
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
		if !token.Valid {
			return nil, errors.New("invalid token")
		}
	} else {
		token, _, err = jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	claims := claimsFromMap(mapClaims)

	// Parse checks exp on verified tokens
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp
		if !a.cfg.VerifySignature && exp.Before(a.now()) {
			return nil, ErrTokenExpired
		}
	}

	return claims, nil
}

// keyfunc loads the issuer's JWKS once
func (a *Authenticator) keyfunc() (jwt.Keyfunc, error) {
	a.jwksOnce.Do(func() {
		if a.cfg.OIDCIssuer == "" {
			a.jwksErr = errors.New("OIDC_ISSUER not configured for JWT verification")
			return
		}

		// Keycloak layout
		jwksURL := strings.TrimSuffix(a.cfg.OIDCIssuer, "/") + "/protocol/openid-connect/certs"
		a.logger.Info().Str("jwks_url", jwksURL).Msg("fetching JWKS")

		k, err := keyfunc.NewDefault([]string{jwksURL})
		if err != nil {
			a.jwksErr = fmt.Errorf("failed to create keyfunc: %w", err)
			return
		}
		a.jwks = k
	})

	if a.jwksErr != nil {
		return nil, a.jwksErr
	}
	return a.jwks.Keyfunc, nil
}

// extractToken reads the Authorization header, then the token query
// parameter used by WebSocket clients
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token := strings.TrimPrefix(header, "Bearer "); token != header {
			return token
		}
	}
	return r.URL.Query().Get("token")
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"message": http.StatusText(status),
		"details": err.Error(),
	})
}
