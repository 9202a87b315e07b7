// Package auth guards the draft's mutating operations with an admin password.
package auth

import (
	"crypto/sha256"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/draftboard/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidHash        = errors.New("invalid password hash")
)

// Config holds configuration for the auth service
type Config struct {
	// PasswordHash is a bcrypt hash. Empty disables authentication.
	PasswordHash string
	// CacheDuration is how long an accepted token skips the bcrypt comparison
	CacheDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		CacheDuration: 15 * time.Minute,
	}
}

// Service checks bearer tokens against the configured password hash
type Service struct {
	hash  []byte
	clock clock.Clock
	ttl   time.Duration

	mu       sync.Mutex
	verified map[[sha256.Size]byte]time.Time
}

// New creates a Service. The hash is checked up front so a typo in
// configuration fails at startup rather than on every request.
func New(cfg Config, clk clock.Clock) (*Service, error) {
	if cfg.CacheDuration == 0 {
		cfg.CacheDuration = DefaultConfig().CacheDuration
	}
	s := &Service{
		clock:    clk,
		ttl:      cfg.CacheDuration,
		verified: make(map[[sha256.Size]byte]time.Time),
	}
	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, errors.Join(ErrInvalidHash, err)
		}
		s.hash = []byte(cfg.PasswordHash)
	}
	return s, nil
}

// Enabled reports whether a password is required
func (s *Service) Enabled() bool {
	return len(s.hash) > 0
}

// Verify checks token against the password. It always succeeds when
// authentication is disabled.
func (s *Service) Verify(token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return ErrInvalidCredentials
	}

	key := sha256.Sum256([]byte(token))
	now := s.clock.Now()

	s.mu.Lock()
	expires, ok := s.verified[key]
	s.mu.Unlock()
	if ok && now.Before(expires) {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(token)); err != nil {
		return ErrInvalidCredentials
	}

	s.mu.Lock()
	s.verified[key] = now.Add(s.ttl)
	s.mu.Unlock()
	return nil
}

// HashPassword returns a bcrypt hash suitable for Config.PasswordHash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
