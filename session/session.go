package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the process-wide authenticated identity, established at login
// and torn down at logout. It is read-only to every component except the
// login/logout flow. A cleared or expired session hands out no token, which
// makes remote calls fail fast instead of being attempted.
type Session struct {
	mu        sync.RWMutex
	userID    uint
	username  string
	token     string
	avatarURL string
	expiresAt time.Time

	store *CredentialStore
}

// New creates a session, restoring persisted credentials when a store is
// given and the stored token has not expired.
func New(store *CredentialStore) *Session {
	s := &Session{store: store}
	if store == nil {
		return s
	}
	creds, err := store.Load()
	if err != nil || creds == nil {
		return s
	}
	if err := s.establish(creds.AuthToken, creds.Username, creds.UserID); err == nil {
		s.mu.Lock()
		s.avatarURL = creds.ProfilePicture
		s.mu.Unlock()
	}
	return s
}

// Establish records a freshly issued identity and persists it.
func (s *Session) Establish(token, username string, userID uint) error {
	if err := s.establish(token, username, userID); err != nil {
		return err
	}
	s.persist()
	return nil
}

func (s *Session) establish(token, username string, userID uint) error {
	exp, err := tokenExpiry(token)
	if err != nil {
		return err
	}
	if !exp.IsZero() && time.Now().After(exp) {
		return ErrSessionExpired
	}
	s.mu.Lock()
	s.token = token
	s.username = username
	s.userID = userID
	s.expiresAt = exp
	s.mu.Unlock()
	return nil
}

// Clear tears the session down and removes persisted credentials.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.userID = 0
	s.avatarURL = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	if s.store != nil {
		_ = s.store.Delete()
	}
}

// Token returns the bearer token, or false when the session is cleared or
// the token has expired.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", false
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return "", false
	}
	return s.token, true
}

// Authenticated reports whether a usable token is held.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// UserID returns the current user's id, zero when signed out.
func (s *Session) UserID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Username returns the current user's display name.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// AvatarURL returns the cached avatar reference, empty when none is set.
func (s *Session) AvatarURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.avatarURL
}

// SetProfile updates the cached username/avatar after a profile edit and
// persists the change.
func (s *Session) SetProfile(username, avatarURL string) {
	s.mu.Lock()
	if username != "" {
		s.username = username
	}
	s.avatarURL = avatarURL
	s.mu.Unlock()
	s.persist()
}

func (s *Session) persist() {
	if s.store == nil {
		return
	}
	s.mu.RLock()
	creds := Credentials{
		AuthToken:      s.token,
		Username:       s.username,
		UserID:         s.userID,
		ProfilePicture: s.avatarURL,
	}
	s.mu.RUnlock()
	_ = s.store.Save(creds)
}

// tokenExpiry parses the JWT without verifying it (the signing secret lives
// on the server) and returns its expiry, zero when the claim is absent.
func tokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
