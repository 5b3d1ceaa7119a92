package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(h http.Header) (string, error) {
	header := h.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthorization
	}

	parts := strings.Fields(header)
	switch {
	case len(parts) == 0 || !strings.EqualFold(parts[0], "bearer"):
		return "", ErrBearerPrefix
	case len(parts) == 1:
		return "", ErrTokenNotFound
	case len(parts) > 2:
		return "", ErrNotBearerToken
	}

	return parts[1], nil
}
