// file: internal/ratelimit/policy.go
// version: 1.0.0
// guid: d7c1f4a5-0b6e-4d8f-2a3b-5c6d7e8f9a0b

package ratelimit

import "time"

// Policy is an independent (window, max) pair for one route class.
type Policy struct {
	Window time.Duration
	Max    int
}

// Profile names the route classes the server assigns policies by.
type Profile string

const (
	ProfileRead      Profile = "read"
	ProfileWrite     Profile = "write"
	ProfileSensitive Profile = "sensitive"
	ProfileUpload    Profile = "upload"
	ProfileMetadata  Profile = "metadata"
)

// DefaultPolicies is the standard policy table. Each profile is its own
// counter namespace: a client's write quota is tracked separately from
// its read quota.
func DefaultPolicies() map[Profile]Policy {
	return map[Profile]Policy{
		ProfileRead:      {Window: 15 * time.Minute, Max: 1000},
		ProfileWrite:     {Window: 15 * time.Minute, Max: 100},
		ProfileSensitive: {Window: 60 * time.Minute, Max: 10},
		ProfileUpload:    {Window: 60 * time.Minute, Max: 50},
		ProfileMetadata:  {Window: 15 * time.Minute, Max: 200},
	}
}
