// Package authflowrepo remembers the state values handed out in authorization
// URLs until the matching callback arrives.
package authflowrepo

import "time"

// AuthFlowState is what the client remembers about an authorization request
// between redirecting the user and receiving the callback.
type AuthFlowState struct {
	Scopes    []string
	CreatedAt time.Time
}

// Expired reports whether the state is older than ttl at now.
func (s *AuthFlowState) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.CreatedAt) > ttl
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	// Take returns the state and removes it, so a callback can only be used once.
	Take(state string) (*AuthFlowState, error)
	// Purge drops states created before cutoff and returns how many went.
	Purge(cutoff time.Time) int
}
