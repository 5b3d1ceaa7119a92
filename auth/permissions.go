package auth

// CheckPermissions asserts that claims grant permission. An empty permission
// only requires the permissions claim to be present.
func CheckPermissions(permission string, claims *Claims) error {
	if !claims.HasPermissionsClaim() {
		return ErrPermissionsClaimMissing
	}
	if permission != "" && !claims.HasPermission(permission) {
		return ErrPermissionDenied
	}
	return nil
}
