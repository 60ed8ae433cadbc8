package tokenfakerepo

import (
	"sync"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/jrsteele09/go-oura-client/token"
	"golang.org/x/oauth2"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo keeps every saved token in memory, oldest first.
type FakeTokenRepo struct {
	saved []*oauth2.Token
	lock  sync.RWMutex
}

func NewFakeTokenRepo(initial *oauth2.Token) *FakeTokenRepo {
	tr := &FakeTokenRepo{}
	if initial != nil {
		tr.saved = append(tr.saved, initial)
	}
	return tr
}

func (tr *FakeTokenRepo) Save(tok *oauth2.Token) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.saved = append(tr.saved, tok)
	return nil
}

func (tr *FakeTokenRepo) Load() (*oauth2.Token, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	if len(tr.saved) == 0 {
		return nil, ouraerrors.ErrNotFound
	}
	return tr.saved[len(tr.saved)-1], nil
}

// Saves returns how many times Save was called.
func (tr *FakeTokenRepo) Saves() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return len(tr.saved)
}
