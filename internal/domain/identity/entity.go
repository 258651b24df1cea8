// internal/domain/identity/entity.go
package identity

import "strings"

// Identity is the logged-in user's minimal profile, cached in the snapshot
// store and used as the partition key for the remote store.
type Identity struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Valid reports whether the identity carries the fields the storefront
// depends on
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.UID) != "" && strings.TrimSpace(i.Email) != ""
}

// DisplayName returns the username, falling back to the email address
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}
