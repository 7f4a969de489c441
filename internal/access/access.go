/*Package access provides utilities for access control
 */
package access

import (
	"net/http"
	"strings"
)

// Guard authorizes a caller-supplied credential for the administrative
// operations of the backend.
//
// The credential is whatever follows "Bearer " in the Authorization
// header. Guards are pure functions of the credential; they never touch
// the store.
type Guard interface {
	Authorize(credential string) bool
}

// BearerCredential extracts the bearer credential from the request's
// Authorization header. It returns the empty string if the header is
// missing or is not a bearer authorization.
func BearerCredential(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// SharedSecret is a Guard which authorizes callers who present the
// process-wide admin secret, compared by exact string match.
type SharedSecret struct {
	secret string
}

// NewSharedSecret creates a shared-secret guard. An empty secret
// authorizes nobody.
func NewSharedSecret(secret string) *SharedSecret {
	return &SharedSecret{secret: secret}
}

// Authorize returns true if the credential equals the configured secret.
func (s *SharedSecret) Authorize(credential string) bool {
	if s == nil || s.secret == "" {
		return false
	}
	return credential == s.secret
}

// AnyOf is a composite Guard which authorizes a credential if any of its
// member guards does.
type AnyOf []Guard

// Authorize implements Guard.
func (g AnyOf) Authorize(credential string) bool {
	for _, guard := range g {
		if guard.Authorize(credential) {
			return true
		}
	}
	return false
}
