// Package filerepo stores a token as JSON on local disk.
package filerepo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/jrsteele09/go-oura-client/token"
	"golang.org/x/oauth2"
)

var _ token.Repo = (*FileRepo)(nil)

type FileRepo struct {
	mu   sync.Mutex
	path string
}

func New(path string) *FileRepo {
	return &FileRepo{path: path}
}

// Path returns the file the token is stored in.
func (r *FileRepo) Path() string {
	return r.path
}

// Save writes tok to a temp file and renames it into place.
func (r *FileRepo) Save(tok *oauth2.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(token.FromOAuth2(tok), "", "  ")
	if err != nil {
		return ouraerrors.Wrapf(err, "filerepo.Save marshal")
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return ouraerrors.Wrapf(err, "filerepo.Save mkdir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".token-*")
	if err != nil {
		return ouraerrors.Wrapf(err, "filerepo.Save")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return ouraerrors.Wrapf(err, "filerepo.Save write")
	}
	if err := tmp.Close(); err != nil {
		return ouraerrors.Wrapf(err, "filerepo.Save close")
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return ouraerrors.Wrapf(err, "filerepo.Save rename")
	}
	return nil
}

func (r *FileRepo) Load() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("token file %s: %w", r.path, ouraerrors.ErrNotFound)
	}
	if err != nil {
		return nil, ouraerrors.Wrapf(err, "filerepo.Load")
	}

	var t token.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, ouraerrors.Wrapf(err, "filerepo.Load parse %s", r.path)
	}
	if t.AccessToken == "" {
		return nil, fmt.Errorf("token file %s has no access token: %w", r.path, ouraerrors.ErrInvalidRequest)
	}
	return t.OAuth2(), nil
}
