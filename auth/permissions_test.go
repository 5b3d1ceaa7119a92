package auth

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeClaims(t *testing.T, payload string) *Claims {
	t.Helper()
	claims := &Claims{}
	require.NoError(t, json.Unmarshal([]byte(payload), claims))
	return claims
}

func TestClaims_UnmarshalJSON(t *testing.T) {
	claims := decodeClaims(t, `{"sub":"auth0|1","aud":["casting"],"permissions":["get:actors"],"scope":"openid"}`)
	assert.Equal(t, "auth0|1", claims.Subject)
	assert.Equal(t, []string{"casting"}, []string(claims.Audience))
	assert.Equal(t, []string{"get:actors"}, claims.Permissions)
	assert.Equal(t, "openid", claims.Scope)
	assert.True(t, claims.HasPermissionsClaim())

	empty := decodeClaims(t, `{"sub":"auth0|1","permissions":[]}`)
	assert.True(t, empty.HasPermissionsClaim())
	assert.Empty(t, empty.Permissions)

	missing := decodeClaims(t, `{"sub":"auth0|1"}`)
	assert.False(t, missing.HasPermissionsClaim())

	null := decodeClaims(t, `{"sub":"auth0|1","permissions":null}`)
	assert.False(t, null.HasPermissionsClaim())
}

func TestCheckPermissions(t *testing.T) {
	granted := decodeClaims(t, `{"permissions":["get:actors","post:actors"]}`)
	readOnly := decodeClaims(t, `{"permissions":["read:actors"]}`)
	none := decodeClaims(t, `{"permissions":[]}`)
	missing := decodeClaims(t, `{"sub":"x"}`)

	tests := []struct {
		name       string
		permission string
		claims     *Claims
		wantErr    *AuthError
		wantStatus int
	}{
		{name: "permission granted", permission: "post:actors", claims: granted},
		{name: "empty requirement only needs the claim", permission: "", claims: none},
		{name: "permission absent", permission: "delete:actors", claims: readOnly, wantErr: ErrPermissionDenied, wantStatus: http.StatusForbidden},
		{name: "empty permission list", permission: "get:actors", claims: none, wantErr: ErrPermissionDenied, wantStatus: http.StatusForbidden},
		{name: "claim missing", permission: "get:actors", claims: missing, wantErr: ErrPermissionsClaimMissing, wantStatus: http.StatusBadRequest},
		{name: "claim missing with empty requirement", permission: "", claims: missing, wantErr: ErrPermissionsClaimMissing, wantStatus: http.StatusBadRequest},
		{name: "nil claims", permission: "get:actors", claims: nil, wantErr: ErrPermissionsClaimMissing, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPermissions(tt.permission, tt.claims)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantStatus, AsAuthError(err).Status)
		})
	}
}

func TestCheckPermissions_DeniedMessage(t *testing.T) {
	err := CheckPermissions("delete:actors", decodeClaims(t, `{"permissions":["read:actors"]}`))
	authErr := AsAuthError(err)
	assert.Equal(t, http.StatusForbidden, authErr.Status)
	assert.Equal(t, CodeUnauthorized, authErr.Code)
	assert.Equal(t, "Permission not found.", authErr.Description)
}

func TestCheckPermissions_MissingClaimCode(t *testing.T) {
	err := CheckPermissions("get:actors", decodeClaims(t, `{}`))
	authErr := AsAuthError(err)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, CodeInvalidClaims, authErr.Code)
}
