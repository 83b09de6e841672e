// file: internal/server/middleware/ratelimit.go
// version: 1.0.0
// guid: 2a3b6c9d-5e1f-4a4b-7c8d-0e1f2a3b4c5d

package middleware

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/notekeeper/internal/api"
	"github.com/jdfalk/notekeeper/internal/metrics"
	"github.com/jdfalk/notekeeper/internal/ratelimit"
)

// RateLimitOptions configures one rate-limit stage instance.
type RateLimitOptions struct {
	// Production switches off the dev key prefix.
	Production bool
	// PerUser additionally enforces the quota per authenticated user.
	// The user check runs only after the IP check passes.
	PerUser bool
	// UserKeyFn extracts the user identity from the request, or "" when
	// the request is anonymous. Defaults to the bearer token.
	UserKeyFn func(c *gin.Context) string
}

// BearerUserKey is the default user identity: the Authorization bearer
// token. Session semantics are out of scope; the token only namespaces
// a counter.
func BearerUserKey(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

// RateLimit returns a middleware enforcing the policy for one profile.
// Fixed-window counting: a client may burst up to 2x max across a window
// boundary, accepted for O(1) memory. Store failures are logged and the
// request is allowed; only a real quota breach blocks.
func RateLimit(store ratelimit.Store, profile ratelimit.Profile, policy ratelimit.Policy, opts RateLimitOptions) gin.HandlerFunc {
	if opts.UserKeyFn == nil {
		opts.UserKeyFn = BearerUserKey
	}

	return func(c *gin.Context) {
		// Pre-flight probes never consume quota.
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		clientKey, err := ClientKey(c.Request)
		if err != nil {
			AbortWithError(c, api.NewClientIdentityError("unable to identify client: "+err.Error()))
			return
		}

		key := limiterKey(string(profile), clientKey, opts.Production)
		if !allow(c, store, key, profile, policy) {
			return
		}

		if opts.PerUser {
			if userKey := opts.UserKeyFn(c); userKey != "" {
				key := limiterKey(string(profile)+":user", userKey, opts.Production)
				if !allow(c, store, key, profile, policy) {
					return
				}
			}
		}

		c.Next()
	}
}

// allow runs one increment-and-check. Returns false when the request was
// rejected (response already aborted).
func allow(c *gin.Context, store ratelimit.Store, key string, profile ratelimit.Profile, policy ratelimit.Policy) bool {
	w, err := store.Increment(key, policy.Window)
	if err != nil {
		// Limiter bookkeeping failure must never block legitimate
		// traffic; degrade to allow.
		log.Printf("[WARN] rate limiter store failure for %s: %v", key, err)
		return true
	}

	remaining := policy.Max - w.Count
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Max))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	if w.Count > policy.Max {
		retryAfter := int(math.Ceil(time.Until(w.ResetAt).Seconds()))
		if retryAfter < 0 {
			retryAfter = 0
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		metrics.IncRateLimitRejection(string(profile))
		AbortWithError(c, api.NewRateLimited(retryAfter))
		return false
	}
	return true
}
