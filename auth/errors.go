package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies which authorization step rejected a request.
type Kind string

const (
	KindMissingAuthorization    Kind = "missing_authorization"
	KindMalformedAuthorization  Kind = "malformed_authorization"
	KindMalformedToken          Kind = "malformed_token"
	KindNoMatchingKey           Kind = "no_matching_key"
	KindKeyFetch                Kind = "key_fetch"
	KindTokenExpired            Kind = "token_expired"
	KindInvalidClaims           Kind = "invalid_claims"
	KindTokenDecode             Kind = "token_decode"
	KindPermissionsClaimMissing Kind = "permissions_claim_missing"
	KindPermissionDenied        Kind = "permission_denied"
	KindUnexpected              Kind = "unexpected"
)

// Error codes returned to the caller.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
)

// AuthError is the uniform authorization failure. Status is the HTTP status
// the caller receives, Code is machine readable and Description is the
// message shown to the caller.
type AuthError struct {
	Kind        Kind
	Status      int
	Code        string
	Description string
	Err         error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another AuthError of the same kind, so the sentinels below work with errors.Is.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// wrap returns a copy of a sentinel carrying the underlying cause.
func (e *AuthError) wrap(err error) *AuthError {
	c := *e
	c.Err = err
	return &c
}

func newAuthError(kind Kind, status int, code, description string) *AuthError {
	return &AuthError{Kind: kind, Status: status, Code: code, Description: description}
}

var (
	ErrMissingAuthorization = newAuthError(KindMissingAuthorization, http.StatusUnauthorized,
		CodeHeaderMissing, "Authorization header is expected.")

	ErrBearerPrefix = newAuthError(KindMalformedAuthorization, http.StatusUnauthorized,
		CodeInvalidHeader, `Authorization header must start with "Bearer".`)
	ErrTokenNotFound = newAuthError(KindMalformedAuthorization, http.StatusUnauthorized,
		CodeInvalidHeader, "Token not found.")
	ErrNotBearerToken = newAuthError(KindMalformedAuthorization, http.StatusUnauthorized,
		CodeInvalidHeader, "Authorization header must be bearer token.")

	ErrMalformedToken = newAuthError(KindMalformedToken, http.StatusUnauthorized,
		CodeInvalidHeader, "Authorization malformed.")
	ErrNoMatchingKey = newAuthError(KindNoMatchingKey, http.StatusBadRequest,
		CodeInvalidHeader, "Unable to find the appropriate key.")
	ErrKeyFetch = newAuthError(KindKeyFetch, http.StatusBadRequest,
		CodeInvalidHeader, "Unable to parse authentication token.")
	ErrTokenExpired = newAuthError(KindTokenExpired, http.StatusUnauthorized,
		CodeTokenExpired, "Token expired.")
	ErrInvalidClaims = newAuthError(KindInvalidClaims, http.StatusUnauthorized,
		CodeInvalidClaims, "Incorrect claims. Please, check the audience and issuer.")
	ErrTokenDecode = newAuthError(KindTokenDecode, http.StatusBadRequest,
		CodeInvalidHeader, "Unable to parse authentication token.")

	ErrPermissionsClaimMissing = newAuthError(KindPermissionsClaimMissing, http.StatusBadRequest,
		CodeInvalidClaims, "Permissions not included in JWT.")
	ErrPermissionDenied = newAuthError(KindPermissionDenied, http.StatusForbidden,
		CodeUnauthorized, "Permission not found.")

	// ErrUnexpected hides failures that did not come from a known step.
	ErrUnexpected = newAuthError(KindUnexpected, http.StatusUnauthorized,
		CodeUnauthorized, "Permissions not found.")
)

// AsAuthError returns err as an *AuthError, folding anything else into ErrUnexpected.
func AsAuthError(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return ErrUnexpected.wrap(err)
}
