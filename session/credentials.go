package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrSessionExpired is returned when a restored or supplied token is already
// past its expiry.
var ErrSessionExpired = errors.New("session token expired")

// Credentials is the persisted local identity state: the browser
// localStorage analog (authToken, userId, username, cached avatar).
type Credentials struct {
	AuthToken      string `json:"auth_token"`
	Username       string `json:"username"`
	UserID         uint   `json:"user_id"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// CredentialStore reads and writes credentials as a JSON file. Written only
// by the login/logout/profile-update flows.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewCredentialStore creates a store backed by the given file path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Load returns the stored credentials, or nil when none are stored.
func (c *CredentialStore) Load() (*Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(b, &creds); err != nil {
		return nil, err
	}
	if creds.AuthToken == "" {
		return nil, nil
	}
	return &creds, nil
}

// Save writes credentials with owner-only permissions.
func (c *CredentialStore) Save(creds Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dir := filepath.Dir(c.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0o600)
}

// Delete removes stored credentials. Missing file is not an error.
func (c *CredentialStore) Delete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
