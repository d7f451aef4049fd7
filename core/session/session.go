// Package session holds the authenticated identity of a client process and
// keeps its token in a durable TokenStore.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/edumatch/core/user"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator is the remote auth service a session delegates to.
type Authenticator interface {
	Login(ctx context.Context, cred user.Credentials) (user.User, string, error)
	Register(ctx context.Context, nu user.NewUser) (user.User, string, error)
	// Me resolves the user of the stored token.
	Me(ctx context.Context) (user.User, error)
}

// State is a snapshot of the session.
type State struct {
	Authenticated bool
	User          *user.User // nil when the session was restored and not yet resolved
	Token         string
}

type Manager struct {
	mu    sync.RWMutex
	auth  Authenticator
	store TokenStore
	user  *user.User
	token string
}

func NewManager(auth Authenticator, store TokenStore) *Manager {
	return &Manager{auth: auth, store: store}
}

func (m *Manager) set(usr *user.User, token string) {
	m.mu.Lock()
	m.user, m.token = usr, token
	m.mu.Unlock()
}

// Login keeps the prior state when the auth service rejects the credentials.
func (m *Manager) Login(ctx context.Context, email, password string) (user.User, error) {
	usr, token, err := m.auth.Login(ctx, user.Credentials{Email: email, Password: password})
	if err != nil {
		return user.User{}, errors.Wrap(err, "login")
	}
	return m.hold(ctx, usr, token)
}

func (m *Manager) Register(ctx context.Context, nu user.NewUser) (user.User, error) {
	usr, token, err := m.auth.Register(ctx, nu)
	if err != nil {
		return user.User{}, errors.Wrap(err, "register")
	}
	return m.hold(ctx, usr, token)
}

func (m *Manager) hold(ctx context.Context, usr user.User, token string) (user.User, error) {
	if err := m.store.Set(ctx, token); err != nil {
		return user.User{}, errors.Wrap(err, "storing token")
	}
	m.set(&usr, token)
	return usr, nil
}

// Logout clears the stored token and the held user. It is safe to call when logged out.
func (m *Manager) Logout(ctx context.Context) error {
	m.set(nil, "")
	return errors.Wrap(m.store.Delete(ctx), "deleting token")
}

// Restore rehydrates the session from the stored token. The user is not resolved.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	token, err := m.store.Get(ctx)
	if err != nil {
		if errors.Cause(err) == ErrNoToken {
			m.set(nil, "")
			return m.State(), nil
		}
		return State{}, errors.Wrap(err, "reading token")
	}
	m.set(nil, token)
	return m.State(), nil
}

// Whoami resolves the user of the current token and holds it.
// A rejected token ends the session.
func (m *Manager) Whoami(ctx context.Context) (user.User, error) {
	if !m.State().Authenticated {
		return user.User{}, ErrNotAuthenticated
	}
	usr, err := m.auth.Me(ctx)
	if err != nil {
		if errors.Cause(err) == ErrNotAuthenticated {
			_ = m.Logout(ctx)
		}
		return user.User{}, errors.Wrap(err, "whoami")
	}
	m.mu.Lock()
	m.user = &usr
	m.mu.Unlock()
	return usr, nil
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := State{Authenticated: m.token != "", Token: m.token}
	if m.user != nil {
		usr := *m.user
		st.User = &usr
	}
	return st
}
