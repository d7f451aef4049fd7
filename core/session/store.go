package session

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// TokenKey is the single key under which the session token is stored.
const TokenKey = "token"

var ErrNoToken = errors.New("no token stored")

// TokenStore is the durable client storage holding the session token.
type TokenStore interface {
	// Get returns ErrNoToken when no token is stored.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	// Delete is a no-op when no token is stored.
	Delete(ctx context.Context) error
}

type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

var _ TokenStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return new(MemoryStore)
}

func (s *MemoryStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(context.Context) error {
	return s.Set(context.Background(), "")
}

// FileStore keeps the token in a file readable by the current user only.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ TokenStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultTokenFile is ~/.config/edumatch/token, or ./.edumatch-token when no config dir is available.
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".edumatch-" + TokenKey
	}
	return filepath.Join(dir, "edumatch", TokenKey)
}

func (s *FileStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := ioutil.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", errors.Wrap(err, "reading token file")
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *FileStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	return errors.Wrap(ioutil.WriteFile(s.path, []byte(token), 0o600), "writing token file")
}

func (s *FileStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}
