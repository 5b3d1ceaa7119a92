// Package authtest provides a fake identity provider for tests: an RSA
// signing key, a JWKS endpoint backed by httptest and a token signer.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	Domain   = "casting.test.auth0.com"
	Issuer   = "https://" + Domain + "/"
	Audience = "casting"
)

// Provider is an in-process identity provider.
type Provider struct {
	Server *httptest.Server

	mu       sync.Mutex
	key      *rsa.PrivateKey
	kid      string
	status   int
	requests atomic.Int32
}

// NewProvider starts a JWKS server publishing one fresh key under kid.
func NewProvider(t testing.TB, kid string) *Provider {
	t.Helper()

	p := &Provider{status: http.StatusOK}
	p.Rotate(t, kid)
	p.Server = httptest.NewServer(http.HandlerFunc(p.serveKeys))
	t.Cleanup(p.Server.Close)
	return p
}

// KeySetURL returns the JWKS endpoint.
func (p *Provider) KeySetURL() string {
	return p.Server.URL + "/.well-known/jwks.json"
}

// Requests returns how many times the key set was fetched.
func (p *Provider) Requests() int {
	return int(p.requests.Load())
}

// Rotate replaces the published key.
func (p *Provider) Rotate(t testing.TB, kid string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.key = key
	p.kid = kid
}

// FailWith makes the JWKS endpoint answer with status; 200 restores it.
func (p *Provider) FailWith(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *Provider) serveKeys(w http.ResponseWriter, r *http.Request) {
	p.requests.Add(1)

	p.mu.Lock()
	status, pub, kid := p.status, &p.key.PublicKey, p.kid
	p.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       pub,
		KeyID:     kid,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(set)
}

// Claims returns a valid claim set for the test audience and issuer.
func Claims(permissions []string) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": Issuer,
		"sub": "auth0|casting-director",
		"aud": []string{Audience, Issuer + "userinfo"},
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if permissions != nil {
		claims["permissions"] = permissions
	}
	return claims
}

// Sign signs claims with the current key, RS256, kid in the header.
func (p *Provider) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	p.mu.Lock()
	kid := p.kid
	p.mu.Unlock()
	return p.SignWith(t, jwt.SigningMethodRS256, kid, claims)
}

// SignWith signs claims with the current key and explicit method and kid.
// An empty kid leaves the header without one.
func (p *Provider) SignWith(t testing.TB, method jwt.SigningMethod, kid string, claims jwt.Claims) string {
	t.Helper()
	p.mu.Lock()
	key := p.key
	p.mu.Unlock()

	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

// SignForeign signs claims with a key the provider never published.
func SignForeign(t testing.TB, kid string, claims jwt.Claims) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}
