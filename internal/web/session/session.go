// Package session keeps admin login sessions in a gofiber storage backend.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const statePrefix = "oidc-state:"

var (
	// ErrNoSession is returned when the session id is empty or unknown.
	ErrNoSession = errors.New("no session")
	// ErrStorageNil is returned by New when no storage backend is given.
	ErrStorageNil = errors.New("session storage is nil")
)

// Data represents the session data structure.
type Data struct {
	UserID   uint64 `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store reads and writes Data by session id.
type Store struct {
	storage fiber.Storage
	expiry  time.Duration
	secure  bool
}

// New returns a Store on top of s. Sessions live for expiry; cookies are
// marked Secure when secure is set.
func New(s fiber.Storage, expiry time.Duration, secure bool) (*Store, error) {
	if s == nil {
		return nil, ErrStorageNil
	}

	return &Store{storage: s, expiry: expiry, secure: secure}, nil
}

// Write stores d under sessionID.
func (s *Store) Write(sessionID string, d *Data) error {
	out, err := json.Marshal(d)
	if err != nil {
		return err
	}

	return s.storage.Set(sessionID, out, s.expiry)
}

// Read loads the session data for sessionID.
func (s *Store) Read(sessionID string) (*Data, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	byteData, err := s.storage.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if len(byteData) == 0 {
		return nil, ErrNoSession
	}

	d := new(Data)
	if err = json.Unmarshal(byteData, d); err != nil {
		return nil, err
	}

	if d.UserID == 0 {
		return nil, ErrNoSession
	}

	return d, nil
}

// Delete removes sessionID.
func (s *Store) Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return s.storage.Delete(sessionID)
}

// Start creates a session for d and sets the session cookie on c.
func (s *Store) Start(c *fiber.Ctx, d *Data) error {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return err
	}

	if err = s.Write(sessionID, d); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.expiry.Seconds()),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// End deletes the session of c and expires its cookie.
func (s *Store) End(c *fiber.Ctx) error {
	err := s.Delete(c.Cookies(CookieName))

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return err
}

// PutState stores an OIDC state token with its nonce for ttl.
func (s *Store) PutState(state, nonce string, ttl time.Duration) error {
	return s.storage.Set(statePrefix+state, []byte(nonce), ttl)
}

// TakeState returns the nonce stored for state and deletes it.
// Unknown or expired states return ErrNoSession.
func (s *Store) TakeState(state string) (string, error) {
	if state == "" {
		return "", ErrNoSession
	}

	nonce, err := s.storage.Get(statePrefix + state)
	if err != nil {
		return "", err
	}

	if len(nonce) == 0 {
		return "", ErrNoSession
	}

	_ = s.storage.Delete(statePrefix + state)

	return string(nonce), nil
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
