package cmd

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/internal/authtest"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestJWKSCommand(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/casting")

	t.Run("prints key ids", func(t *testing.T) {
		idp := authtest.NewProvider(t, "key-2026")
		t.Setenv("AUTH0_DOMAIN", authtest.Domain)
		t.Setenv("API_AUDIENCE", authtest.Audience)
		t.Setenv("AUTH0_JWKS_URL", idp.KeySetURL())

		out, err := runRoot(t, "jwks")
		require.NoError(t, err)
		assert.Contains(t, out, idp.KeySetURL())
		assert.Contains(t, out, "key-2026")
		assert.Equal(t, 1, idp.Requests())
	})

	t.Run("key set unavailable", func(t *testing.T) {
		idp := authtest.NewProvider(t, "key-2026")
		idp.FailWith(http.StatusServiceUnavailable)
		t.Setenv("AUTH0_DOMAIN", authtest.Domain)
		t.Setenv("API_AUDIENCE", authtest.Audience)
		t.Setenv("AUTH0_JWKS_URL", idp.KeySetURL())

		_, err := runRoot(t, "jwks")
		assert.Error(t, err)
	})

	t.Run("identity provider not configured", func(t *testing.T) {
		t.Setenv("AUTH0_DOMAIN", "")
		t.Setenv("API_AUDIENCE", "")

		_, err := runRoot(t, "jwks")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH0_DOMAIN")
	})
}
