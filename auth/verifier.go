package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/casting-agency/jwks"
)

// VerifierConfig is the immutable provider configuration a Verifier checks tokens against.
type VerifierConfig struct {
	Audience   string
	Issuer     string
	Algorithms []string
	Leeway     time.Duration
}

// Verifier validates bearer tokens against keys published by the identity provider.
type Verifier struct {
	keys   jwks.KeyProvider
	parser *jwt.Parser
}

// NewVerifier creates a verifier accepting exactly cfg.Algorithms.
func NewVerifier(cfg VerifierConfig, keys jwks.KeyProvider) *Verifier {
	return &Verifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods(cfg.Algorithms),
			jwt.WithAudience(cfg.Audience),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(cfg.Leeway),
		),
	}
}

// Verify checks signature, audience, issuer and expiry, and returns the decoded claims.
// Every failure is an *AuthError.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrMalformedToken
		}

		key, err := v.keys.Resolve(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key.Key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrTokenDecode
	}

	return claims, nil
}

// classify maps parser and key resolution failures onto the error taxonomy.
func classify(err error) *AuthError {
	switch {
	case errors.Is(err, ErrMalformedToken), errors.Is(err, jwks.ErrMissingKeyID):
		return ErrMalformedToken.wrap(err)
	case errors.Is(err, jwks.ErrUnknownKey):
		return ErrNoMatchingKey.wrap(err)
	case errors.Is(err, jwks.ErrFetchFailed):
		return ErrKeyFetch.wrap(err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.wrap(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrInvalidClaims.wrap(err)
	default:
		return ErrTokenDecode.wrap(err)
	}
}
