// Package session owns the process-wide authentication state: the
// bearer token, whether it has been read from storage, and the login
// and logout transitions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// TokenRepo persists the bearer token. *store.Store implements it.
type TokenRepo interface {
	Token() (string, bool, error)
	SetToken(tok string) error
	ClearToken() error
}

// Authenticator exchanges credentials for a token. *api.Client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Route names the view a session transition lands on.
type Route string

const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

// ErrMissingCredentials is returned by Login when email or password is empty.
var ErrMissingCredentials = errors.New("email and password are required")

// State is a snapshot of the session.
type State struct {
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Manager is the single session store. Init reads storage once; after
// that only Login and Logout change it.
type Manager struct {
	repo   TokenRepo
	auth   Authenticator
	logger *slog.Logger

	mu      sync.RWMutex
	token   string
	loading bool
}

func NewManager(repo TokenRepo, auth Authenticator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{repo: repo, auth: auth, logger: logger, loading: true}
}

// Init loads the persisted token. It may be called once at startup.
func (m *Manager) Init() error {
	tok, ok, err := m.repo.Token()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if ok {
		m.token = tok
	}
	return nil
}

// State returns the current session snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{
		Token:           m.token,
		IsAuthenticated: m.token != "",
		IsLoading:       m.loading,
	}
}

// Token returns the current bearer token, or "" when signed out. It
// lets a Manager serve as an api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Login authenticates and persists the returned token. The session is
// left unchanged on any error, including a response without a token.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	tok, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Warn("login_failed", "email", email, "error", err)
		return err
	}
	if tok == "" {
		return errors.New("login response did not include a token")
	}
	if err := m.repo.SetToken(tok); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()
	m.logger.Info("login", "email", email)
	return nil
}

// Logout clears the token from storage and memory.
func (m *Manager) Logout() error {
	if err := m.repo.ClearToken(); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	m.logger.Info("logout")
	return nil
}

// Route reports where the app belongs given the current state.
func (m *Manager) Route() Route {
	if m.State().IsAuthenticated {
		return RouteDashboard
	}
	return RouteLogin
}
