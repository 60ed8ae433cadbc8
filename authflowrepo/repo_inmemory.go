package authflowrepo

import (
	"fmt"
	"sync"
	"time"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps pending states in a map. Safe for concurrent use.
type InMemoryRepo struct {
	mu      sync.Mutex
	pending map[string]AuthFlowState
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{pending: make(map[string]AuthFlowState)}
}

func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	switch {
	case state == "":
		return ouraerrors.Invalidf("empty state")
	case authState == nil:
		return ouraerrors.Invalidf("nil auth flow state for %q", state)
	}

	r.mu.Lock()
	r.pending[state] = AuthFlowState{
		Scopes:    append([]string(nil), authState.Scopes...),
		CreatedAt: authState.CreatedAt,
	}
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepo) Take(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, ouraerrors.Invalidf("empty state")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pending, ok := r.pending[state]
	if !ok {
		return nil, fmt.Errorf("state %q: %w", state, ouraerrors.ErrNotFound)
	}
	delete(r.pending, state)
	return &pending, nil
}

func (r *InMemoryRepo) Purge(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for state, pending := range r.pending {
		if pending.CreatedAt.Before(cutoff) {
			delete(r.pending, state)
			purged++
		}
	}
	return purged
}

// Len reports how many states are pending.
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
