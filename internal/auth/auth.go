// Package auth emulates a credential-based session without a real security
// boundary: registered users and the current session live in persisted
// key-value storage, and outcomes are booleans plus notifications rather
// than errors. It is a demo mock; only the CredentialScheme seam separates
// it from something deployable.
package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajju853/sparkle-storefront/internal/notify"
	"github.com/ajju853/sparkle-storefront/internal/storage/kv"
)

// Persisted-storage keys for the user collection and the session singleton.
const (
	UsersKey   = "users"
	SessionKey = "current_user"
)

// User is the public-facing identity. The stored credential never crosses
// this boundary.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// storedUser carries the credential alongside the identity. It stays inside
// this package.
type storedUser struct {
	User
	Password string `json:"password"`
}

// Service manages the registered-user collection and the current session.
// Both are mirrored to persisted storage whole on every change; emails are
// unique across the collection (case-sensitive exact match).
type Service struct {
	mu      sync.Mutex
	users   []storedUser
	current *User

	kv     kv.Store
	creds  CredentialScheme
	lg     *zap.Logger
	notify notify.Notifier
	now    func() time.Time
}

// NewService loads persisted users and session state. Unreadable state is
// discarded whole, same as the cart.
func NewService(store kv.Store, creds CredentialScheme, lg *zap.Logger, n notify.Notifier) *Service {
	s := &Service{kv: store, creds: creds, lg: lg, notify: n, now: time.Now}
	s.load()
	return s
}

func (s *Service) load() {
	if raw, ok, err := s.kv.Get(UsersKey); err != nil {
		s.lg.Warn("failed to read persisted users", zap.Error(err))
	} else if ok {
		if err := json.Unmarshal(raw, &s.users); err != nil {
			s.lg.Warn("discarding unreadable user collection", zap.Error(err))
			s.users = nil
		}
	}

	if raw, ok, err := s.kv.Get(SessionKey); err != nil {
		s.lg.Warn("failed to read persisted session", zap.Error(err))
	} else if ok {
		if err := json.Unmarshal(raw, &s.current); err != nil {
			s.lg.Warn("discarding unreadable session", zap.Error(err))
			s.current = nil
		}
	}
}

func (s *Service) persistUsers() {
	raw, err := json.Marshal(s.users)
	if err != nil {
		s.lg.Error("failed to encode users", zap.Error(err))
		return
	}
	if err := s.kv.Set(UsersKey, raw); err != nil {
		s.lg.Warn("users not persisted, continuing in memory", zap.Error(err))
	}
}

func (s *Service) persistSession() {
	raw, err := json.Marshal(s.current)
	if err != nil {
		s.lg.Error("failed to encode session", zap.Error(err))
		return
	}
	if err := s.kv.Set(SessionKey, raw); err != nil {
		s.lg.Warn("session not persisted, continuing in memory", zap.Error(err))
	}
}

// Register creates a new stored user and signs them in. It fails when the
// email is already taken, leaving the collection and any existing session
// untouched. The user ID is derived from the registration timestamp.
func (s *Service) Register(ctx context.Context, email, password, name string) bool {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == email {
			s.mu.Unlock()
			s.notify.Notify(ctx, "Registration failed", "Email already exists")
			return false
		}
	}

	hashed, err := s.creds.Hash(password)
	if err != nil {
		s.mu.Unlock()
		s.lg.Error("failed to hash credential", zap.Error(err))
		s.notify.Notify(ctx, "Registration failed", "Could not store credentials")
		return false
	}

	u := storedUser{
		User: User{
			ID:    s.now().UnixMilli(),
			Email: email,
			Name:  name,
		},
		Password: hashed,
	}
	s.users = append(s.users, u)
	s.persistUsers()

	// Session carries the identity only, credential stripped.
	session := u.User
	s.current = &session
	s.persistSession()
	s.mu.Unlock()

	s.notify.Notify(ctx, "Registration successful", "Welcome to our store!")
	return true
}

// Login signs in on an exact email and credential match. There is no lockout
// and no rate limiting; a failure leaves any existing session untouched.
func (s *Service) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == email && s.creds.Compare(u.Password, password) {
			session := u.User
			s.current = &session
			s.persistSession()
			s.mu.Unlock()
			s.notify.Notify(ctx, "Login successful", "Welcome back!")
			return true
		}
	}
	s.mu.Unlock()
	s.notify.Notify(ctx, "Login failed", "Invalid email or password")
	return false
}

// Logout clears the current session and persists the cleared value.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.persistSession()
	s.mu.Unlock()
	s.notify.Notify(ctx, "Logged out", "You have been logged out successfully")
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Service) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// IsAuthenticated reports whether a session exists.
func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}
