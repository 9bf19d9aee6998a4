// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AnanyaNagabhushan/taskflow/pkg/auth"
)

// RevocationChecker reports whether a token jti has been revoked by logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator validates bearer tokens on protected routes and stores the
// claims in the request context. Public routes simply don't mount it.
type Authenticator struct {
	tokenManager *auth.TokenManager
	revocations  RevocationChecker
}

// NewAuthenticator creates the auth middleware.
func NewAuthenticator(tokenManager *auth.TokenManager, revocations RevocationChecker) *Authenticator {
	return &Authenticator{
		tokenManager: tokenManager,
		revocations:  revocations,
	}
}

// Handler is the chi middleware entry point.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r)
		if err != nil {
			// A failing revocation lookup is an infrastructure problem, not
			// a bad credential.
			if errors.Is(err, errCheckUnavailable) {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		ClientInfoFromContext(r.Context()).UserID = claims.UserID
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}

	token, err := auth.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return nil, errInvalidToken
	}

	claims, err := a.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return nil, errInvalidToken
	}

	revoked, err := a.revocations.IsTokenRevoked(r.Context(), claims.ID)
	if err != nil {
		log.Printf("[ERROR] token revocation check: %v", err)
		return nil, errCheckUnavailable
	}
	if revoked {
		return nil, errRevokedToken
	}

	return claims, nil
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errMissingToken     authError = "missing authorization header"
	errInvalidToken     authError = "invalid or expired token"
	errRevokedToken     authError = "token has been revoked"
	errCheckUnavailable authError = "internal server error"
)

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
