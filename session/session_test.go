package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, userID uint, username string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      jwt.NewNumericDate(time.Now().Add(ttl)),
		"iat":      jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	assert.Equal(t, err, nil)
	return token
}

func TestEstablishAndClear(t *testing.T) {
	s := New(nil)
	assert.Equal(t, s.Authenticated(), false)

	token := signedToken(t, 7, "alice", time.Hour)
	err := s.Establish(token, "alice", 7)
	assert.Equal(t, err, nil)
	assert.Equal(t, s.Authenticated(), true)
	assert.Equal(t, s.UserID(), uint(7))
	assert.Equal(t, s.Username(), "alice")

	got, ok := s.Token()
	assert.Equal(t, ok, true)
	assert.Equal(t, got, token)

	s.Clear()
	assert.Equal(t, s.Authenticated(), false)
	assert.Equal(t, s.UserID(), uint(0))
	_, ok = s.Token()
	assert.Equal(t, ok, false)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := New(nil)
	err := s.Establish(signedToken(t, 7, "alice", -time.Minute), "alice", 7)
	assert.Equal(t, err, ErrSessionExpired)
	assert.Equal(t, s.Authenticated(), false)
}

func TestMalformedTokenRejected(t *testing.T) {
	s := New(nil)
	err := s.Establish("not-a-jwt", "alice", 7)
	assert.NotEqual(t, err, nil)
	assert.Equal(t, s.Authenticated(), false)
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corner", "credentials.json")
	store := NewCredentialStore(path)

	creds, err := store.Load()
	assert.Equal(t, err, nil)
	assert.Equal(t, creds, (*Credentials)(nil))

	saved := Credentials{
		AuthToken:      "tok",
		Username:       "alice",
		UserID:         7,
		ProfilePicture: "https://cdn.example.com/a.png",
	}
	assert.Equal(t, store.Save(saved), nil)

	creds, err = store.Load()
	assert.Equal(t, err, nil)
	assert.NotEqual(t, creds, nil)
	assert.Equal(t, *creds, saved)

	assert.Equal(t, store.Delete(), nil)
	creds, err = store.Load()
	assert.Equal(t, err, nil)
	assert.Equal(t, creds, (*Credentials)(nil))

	// deleting again is not an error
	assert.Equal(t, store.Delete(), nil)
}

func TestSessionRestoredFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewCredentialStore(path)

	token := signedToken(t, 7, "alice", time.Hour)
	first := New(store)
	assert.Equal(t, first.Establish(token, "alice", 7), nil)
	first.SetProfile("alice", "https://cdn.example.com/a.png")

	restored := New(store)
	assert.Equal(t, restored.Authenticated(), true)
	assert.Equal(t, restored.UserID(), uint(7))
	assert.Equal(t, restored.Username(), "alice")
	assert.Equal(t, restored.AvatarURL(), "https://cdn.example.com/a.png")
}

func TestLogoutRemovesStoredCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewCredentialStore(path)

	s := New(store)
	assert.Equal(t, s.Establish(signedToken(t, 7, "alice", time.Hour), "alice", 7), nil)
	s.Clear()

	restored := New(store)
	assert.Equal(t, restored.Authenticated(), false)
}

func TestExpiredStoredTokenNotRestored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewCredentialStore(path)
	assert.Equal(t, store.Save(Credentials{
		AuthToken: signedTokenExpired(t),
		Username:  "alice",
		UserID:    7,
	}), nil)

	s := New(store)
	assert.Equal(t, s.Authenticated(), false)
}

func signedTokenExpired(t *testing.T) string {
	t.Helper()
	return signedToken(t, 7, "alice", -time.Hour)
}
