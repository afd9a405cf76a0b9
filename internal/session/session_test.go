package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestGate(secret string, opts ...Option) *Gate {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithSuffix(func() string { return "a1b2c3d4" }),
	}
	return NewGate(secret, append(base, opts...)...)
}

func TestLoginCorrectPassword(t *testing.T) {
	g := newTestGate("hunter2")

	s, err := g.Login("hunter2", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxAge, s.MaxAge)
	assert.Equal(t, strconv.FormatInt(fixedNow.UnixMilli(), 36)+"a1b2c3d4", s.Token)

	remembered, err := g.Login("hunter2", true)
	require.NoError(t, err)
	assert.Equal(t, RememberMaxAge, remembered.MaxAge)
}

func TestLoginWrongPassword(t *testing.T) {
	g := newTestGate("hunter2")

	for _, pw := range []string{"", "hunter", "hunter2 ", "HUNTER2", "hunter22"} {
		_, err := g.Login(pw, true)
		assert.ErrorIs(t, err, ErrUnauthorized, "password %q", pw)
	}
}

func TestLoginEmptySecretRejectsEverything(t *testing.T) {
	g := newTestGate("")

	_, err := g.Login("", false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokensDifferPerLogin(t *testing.T) {
	g := NewGate("pw")

	a, err := g.Login("pw", false)
	require.NoError(t, err)
	b, err := g.Login("pw", false)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestCookieAttributes(t *testing.T) {
	for _, tc := range []struct {
		remember bool
		maxAge   int
	}{
		{false, 86400},
		{true, 2592000},
	} {
		g := newTestGate("pw")
		s, err := g.Login("pw", tc.remember)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		http.SetCookie(rr, Cookie(s, false))
		c, err := parseSetCookie(rr.Header().Get("Set-Cookie"))
		require.NoError(t, err)

		assert.Equal(t, CookieName, c.Name)
		assert.Equal(t, s.Token, c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, tc.maxAge, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
	}
}

func TestClearCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	http.SetCookie(rr, ClearCookie(true))
	c, err := parseSetCookie(rr.Header().Get("Set-Cookie"))
	require.NoError(t, err)
	assert.Equal(t, CookieName, c.Name)
	assert.Less(t, c.MaxAge, 0)
	assert.True(t, c.Secure)
}

func TestRead(t *testing.T) {
	_, ok := Read(nil)
	assert.False(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok = Read(req)
	assert.False(t, ok)

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "  tok  "})
	v, ok := Read(req)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestVerifyUnsignedAcceptsAnyValue(t *testing.T) {
	g := newTestGate("pw")

	assert.NoError(t, g.Verify("forged-but-present"))
	assert.ErrorIs(t, g.Verify("  "), ErrInvalidToken)
}

func TestSignedLoginRoundTrip(t *testing.T) {
	signer, err := NewSigner("signing-key")
	require.NoError(t, err)
	g := newTestGate("pw", WithSigner(signer))
	require.True(t, g.Signed())

	s, err := g.Login("pw", false)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(s.Token, "."))
	require.NoError(t, g.Verify(s.Token))

	id, err := signer.Verify(s.Token, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(fixedNow.UnixMilli(), 36)+"a1b2c3d4", id)
}

func TestSignedTokenRejections(t *testing.T) {
	signer, err := NewSigner("signing-key")
	require.NoError(t, err)

	token, err := signer.Sign("id-1", fixedNow, time.Hour)
	require.NoError(t, err)

	_, err = signer.Verify(token, fixedNow.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewSigner("other-key")
	require.NoError(t, err)
	_, err = other.Verify(token, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidToken)

	g := newTestGate("pw", WithSigner(signer))
	assert.True(t, errors.Is(g.Verify("opaque-token"), ErrInvalidToken))

	_, err = NewSigner("")
	assert.Error(t, err)
}

// parseSetCookie parses a single Set-Cookie header line. It stands in for
// http.ParseSetCookie, which requires Go 1.23.
func parseSetCookie(line string) (*http.Cookie, error) {
	cs := (&http.Response{Header: http.Header{"Set-Cookie": {line}}}).Cookies()
	if len(cs) == 0 {
		return nil, errors.New("http: invalid Set-Cookie")
	}
	return cs[0], nil
}
