package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fappie/backend/pkg/logger"
)

// DefaultTTL is the lifetime of a session marker.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrInvalidSecret  = errors.New("invalid secret")
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

// Session is the marker handed to a client after a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Options configures a Gate.
type Options struct {
	// Secret is the shared password. An empty secret rejects every login.
	Secret string
	// SigningKey signs session markers. A random key is generated when empty,
	// which invalidates sessions on restart.
	SigningKey string
	TTL        time.Duration
	Now        func() time.Time
}

// Gate checks the shared secret and the session markers derived from it.
type Gate struct {
	secret []byte
	key    []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGate creates a gate.
func NewGate(opts Options) (*Gate, error) {
	key := []byte(opts.SigningKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		logger.Warnf("[auth] SESSION_SECRET not set, sessions will not survive a restart")
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Gate{
		secret: []byte(opts.Secret),
		key:    key,
		ttl:    ttl,
		now:    now,
	}, nil
}

// TTL returns the session lifetime.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// Authenticate exchanges the shared secret for a session.
func (g *Gate) Authenticate(secret string) (Session, error) {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(secret), g.secret) != 1 {
		return Session{}, ErrInvalidSecret
	}

	expiresAt := g.now().Add(g.ttl).Truncate(time.Second)
	payload := uuid.NewString() + "." + strconv.FormatInt(expiresAt.Unix(), 10)

	token := encode([]byte(payload)) + "." + encode(g.sign(payload))
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Authorize validates a session marker.
func (g *Gate) Authorize(token string) error {
	if token == "" {
		return ErrNoSession
	}

	encodedPayload, encodedSig, ok := strings.Cut(token, ".")
	if !ok {
		return ErrInvalidSession
	}

	payload, err := decode(encodedPayload)
	if err != nil {
		return ErrInvalidSession
	}
	sig, err := decode(encodedSig)
	if err != nil {
		return ErrInvalidSession
	}
	if !hmac.Equal(sig, g.sign(string(payload))) {
		return ErrInvalidSession
	}

	_, rawExpiry, ok := strings.Cut(string(payload), ".")
	if !ok {
		return ErrInvalidSession
	}
	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return ErrInvalidSession
	}
	if !g.now().Before(time.Unix(expiry, 0)) {
		return ErrSessionExpired
	}
	return nil
}

func (g *Gate) sign(payload string) []byte {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
