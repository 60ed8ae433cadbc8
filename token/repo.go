package token

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Repo persists the caller's current token between runs. The client library
// never uses one directly; callers bridge it in with SaverFor.
type Repo interface {
	Save(tok *oauth2.Token) error
	Load() (*oauth2.Token, error)
}

// SaverFor returns a Saver that writes each refreshed token to repo. Save
// errors are logged since a Saver has no way to report them.
func SaverFor(repo Repo) Saver {
	return func(tok *oauth2.Token) {
		if err := repo.Save(tok); err != nil {
			log.Error().Err(err).Msg("failed to persist refreshed token")
		}
	}
}
