package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestGate(t *testing.T, c *clock) *Gate {
	t.Helper()
	g, err := NewGate(Options{Secret: "geheim", SigningKey: "test-key", Now: c.now})
	require.NoError(t, err)
	return g
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	g := newTestGate(t, c)

	session, err := g.Authenticate("geheim")
	require.NoError(t, err)
	assert.Equal(t, c.t.Add(DefaultTTL), session.ExpiresAt)
	assert.NoError(t, g.Authorize(session.Token))
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	g := newTestGate(t, &clock{t: time.Now()})

	for _, secret := range []string{"", "Geheim", "geheim ", "geheimer"} {
		_, err := g.Authenticate(secret)
		assert.ErrorIs(t, err, ErrInvalidSecret, secret)
	}
}

func TestEmptyConfiguredSecretRejectsEverything(t *testing.T) {
	g, err := NewGate(Options{SigningKey: "k"})
	require.NoError(t, err)

	_, err = g.Authenticate("")
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestAuthorizeErrors(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	g := newTestGate(t, c)

	session, err := g.Authenticate("geheim")
	require.NoError(t, err)

	assert.ErrorIs(t, g.Authorize(""), ErrNoSession)
	assert.ErrorIs(t, g.Authorize("true"), ErrInvalidSession)
	assert.ErrorIs(t, g.Authorize("a.b.c"), ErrInvalidSession)

	payload, _, _ := strings.Cut(session.Token, ".")
	assert.ErrorIs(t, g.Authorize(payload+"."+encode([]byte("forged"))), ErrInvalidSession)

	other, err := NewGate(Options{Secret: "geheim", SigningKey: "other-key", Now: c.now})
	require.NoError(t, err)
	assert.ErrorIs(t, other.Authorize(session.Token), ErrInvalidSession)

	c.t = c.t.Add(DefaultTTL)
	assert.ErrorIs(t, g.Authorize(session.Token), ErrSessionExpired)
}

func TestRandomSigningKey(t *testing.T) {
	a, err := NewGate(Options{Secret: "geheim"})
	require.NoError(t, err)
	b, err := NewGate(Options{Secret: "geheim"})
	require.NoError(t, err)

	session, err := a.Authenticate("geheim")
	require.NoError(t, err)
	assert.NoError(t, a.Authorize(session.Token))
	assert.ErrorIs(t, b.Authorize(session.Token), ErrInvalidSession)
}

func TestSessionCookie(t *testing.T) {
	session := Session{Token: "tok", ExpiresAt: time.Now().Add(DefaultTTL)}
	c := SessionCookie(session, DefaultTTL, true)

	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	cleared := ClearCookie(false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.False(t, cleared.Secure)
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(req))

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	assert.Equal(t, "tok", TokenFromRequest(req))
}
