package access

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// JWTGuard is a Guard which accepts HS256 tokens signed with the
// configured admin key. It exists so deployments can hand out expiring
// admin tokens instead of sharing the raw secret; both guards implement
// the same contract and can be combined with AnyOf.
type JWTGuard struct {
	key []byte
}

// NewJWTGuard creates a guard for HS256 tokens signed with key.
func NewJWTGuard(key string) *JWTGuard {
	return &JWTGuard{key: []byte(key)}
}

// Authorize returns true if the credential is a valid, unexpired token
// signed with the admin key. Any other signing method is refused.
func (g *JWTGuard) Authorize(credential string) bool {
	if g == nil || len(g.key) == 0 || credential == "" {
		return false
	}
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return g.key, nil
	})
	if err != nil {
		return false
	}
	return token.Valid
}
