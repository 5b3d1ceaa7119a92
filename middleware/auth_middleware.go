package middleware

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// TokenVerifier validates a bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// ClaimsHandlerFunc is a handler that receives the verified claims of the caller
type ClaimsHandlerFunc func(w http.ResponseWriter, r *http.Request, claims *auth.Claims)

// AuthMiddleware guards routes behind a bearer token carrying a permission
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Authorize runs extraction, verification and the permission check for r.
// The returned error is always an *auth.AuthError.
func (m *AuthMiddleware) Authorize(r *http.Request, permission string) (*auth.Claims, error) {
	token, err := auth.ExtractBearerToken(r.Header)
	if err != nil {
		return nil, err
	}

	claims, err := m.verifier.Verify(r.Context(), token)
	if err != nil {
		return nil, auth.AsAuthError(err)
	}
	if claims == nil {
		return nil, auth.ErrUnexpected
	}

	if err := auth.CheckPermissions(permission, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// RequirePermission is a middleware that only lets through callers whose
// token grants permission. Verified claims are stored in the request context.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims, err := m.Authorize(r, permission)
			if err != nil {
				m.reject(w, requestID, permission, err)
				return
			}

			m.logger.Debug("authorization successful",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Subject),
				zap.String("azp", claims.AuthorizedParty),
				zap.String("permission", permission))

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// Wrap guards a single handler, passing it the verified claims.
func (m *AuthMiddleware) Wrap(permission string, h ClaimsHandlerFunc) http.HandlerFunc {
	guarded := m.RequirePermission(permission)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r, GetClaimsFromContext(r.Context()))
	}))
	return guarded.ServeHTTP
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, requestID, permission string, err error) {
	authErr := auth.AsAuthError(err)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("permission", permission),
		zap.String("code", authErr.Code),
		zap.Int("status", authErr.Status),
		zap.Error(err),
	}
	if authErr.Kind == auth.KindUnexpected || authErr.Kind == auth.KindKeyFetch {
		m.logger.Error("authorization failed", fields...)
	} else {
		m.logger.Warn("authorization rejected", fields...)
	}

	_ = utils.WriteErrorCode(w, authErr.Status, authErr.Code, authErr.Description, nil)
}
