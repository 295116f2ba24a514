package gateway

import "strings"

// unauthenticatedEndpoints never receive an Authorization header, matching
// the backend contract for the auth flows themselves.
var unauthenticatedEndpoints = []string{
	"auth/login",
	"auth/register",
	"auth/logout",
}

// ShouldAuthorize reports whether an outbound request for path should carry
// the bearer token. The predicate is pure so the policy can be tested
// without a transport.
func ShouldAuthorize(path, token string) bool {
	if token == "" {
		return false
	}
	normalized := strings.Trim(path, "/")
	for _, endpoint := range unauthenticatedEndpoints {
		if normalized == endpoint {
			return false
		}
	}
	return true
}
