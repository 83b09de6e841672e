// file: internal/server/middleware/clientkey.go
// version: 1.0.0
// guid: 1f2a5b8c-4d0e-4f3a-6b7c-9d0e1f2a3b4c

package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// UnknownClientKey is the sentinel identity used when no client address
// header is present. All anonymous traffic shares one quota under it.
const UnknownClientKey = "unknown"

// devKeyPrefix keeps non-production counters out of the namespace that
// production counters use for the same addresses.
const devKeyPrefix = "dev:"

// ClientKey derives the rate-limit identity for a request: the first hop
// of X-Forwarded-For, else X-Real-IP, else the unknown sentinel.
func ClientKey(r *http.Request) (string, error) {
	if r == nil {
		return "", fmt.Errorf("nil request")
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first == "" {
			return "", fmt.Errorf("malformed X-Forwarded-For header: %q", xff)
		}
		return first, nil
	}

	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real, nil
	}

	return UnknownClientKey, nil
}

// limiterKey namespaces a client identity by profile, with the dev prefix
// outside production.
func limiterKey(profile, clientKey string, production bool) string {
	key := profile + ":" + clientKey
	if !production {
		key = devKeyPrefix + key
	}
	return key
}
