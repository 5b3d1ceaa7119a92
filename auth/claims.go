package auth

import (
	"encoding/json"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a verified access token.
type Claims struct {
	jwt.RegisteredClaims
	Permissions     []string `json:"permissions,omitempty"`
	Scope           string   `json:"scope,omitempty"`
	AuthorizedParty string   `json:"azp,omitempty"`

	hasPermissions bool
}

// UnmarshalJSON records whether the permissions claim was present at all,
// which an empty slice alone cannot express.
func (c *Claims) UnmarshalJSON(data []byte) error {
	type claims Claims
	aux := struct {
		*claims
		Permissions *[]string `json:"permissions"`
	}{claims: (*claims)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.Permissions = nil
	c.hasPermissions = aux.Permissions != nil
	if aux.Permissions != nil {
		c.Permissions = *aux.Permissions
	}
	return nil
}

// HasPermissionsClaim reports whether the token carried a permissions claim.
func (c *Claims) HasPermissionsClaim() bool {
	return c != nil && c.hasPermissions
}

// HasPermission reports whether permission is granted by the token.
func (c *Claims) HasPermission(permission string) bool {
	return c != nil && slices.Contains(c.Permissions, permission)
}
