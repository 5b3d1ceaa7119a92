package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		set         bool
		wantToken   string
		wantErr     *AuthError
		wantMessage string
	}{
		{name: "valid header", header: "Bearer abc.def.ghi", set: true, wantToken: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", set: true, wantToken: "abc"},
		{name: "mixed case scheme and extra spaces", header: "  BeArEr   abc  ", set: true, wantToken: "abc"},
		{name: "missing header", wantErr: ErrMissingAuthorization, wantMessage: "Authorization header is expected."},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", set: true, wantErr: ErrBearerPrefix},
		{name: "whitespace only", header: "   ", set: true, wantErr: ErrBearerPrefix},
		{name: "scheme without token", header: "Bearer", set: true, wantErr: ErrTokenNotFound, wantMessage: "Token not found."},
		{name: "too many parts", header: "Bearer abc def", set: true, wantErr: ErrNotBearerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.set {
				h.Set("Authorization", tt.header)
			}

			token, err := ExtractBearerToken(h)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				return
			}

			require.Error(t, err)
			assert.Empty(t, token)
			assert.Equal(t, tt.wantErr, err)

			authErr := AsAuthError(err)
			assert.Equal(t, http.StatusUnauthorized, authErr.Status)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, authErr.Description)
			}
		})
	}
}

func TestExtractBearerToken_Codes(t *testing.T) {
	_, err := ExtractBearerToken(http.Header{})
	assert.Equal(t, CodeHeaderMissing, AsAuthError(err).Code)

	h := http.Header{}
	h.Set("Authorization", "Token abc")
	_, err = ExtractBearerToken(h)
	assert.Equal(t, CodeInvalidHeader, AsAuthError(err).Code)
}
