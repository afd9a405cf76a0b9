// Package session implements the shared-password gate and the auth-session cookie.
//
// A successful login issues a token built from the current time and a short
// random suffix. Without a signing key the token carries no verifiable claims
// and downstream checks rely on cookie presence. With a signing key the token
// is wrapped in an HS256 JWT and verified on every enforced request.
package session

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie name.
const CookieName = "auth-session"

const (
	DefaultMaxAge  = 24 * time.Hour
	RememberMaxAge = 30 * 24 * time.Hour
)

// ErrUnauthorized is returned when the submitted password does not match.
var ErrUnauthorized = errors.New("invalid password")

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// Session is an issued login session.
type Session struct {
	Token    string
	IssuedAt time.Time
	MaxAge   time.Duration
}

// Gate checks passwords against a single process-wide secret.
type Gate struct {
	secret    string
	signer    *Signer
	now       func() time.Time
	newSuffix func() string
}

// Option configures a Gate.
type Option func(*Gate)

// WithSigner makes the gate issue and verify signed tokens.
func WithSigner(s *Signer) Option {
	return func(g *Gate) { g.signer = s }
}

// WithClock overrides the gate clock.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithSuffix overrides the random token suffix generator.
func WithSuffix(fn func() string) Option {
	return func(g *Gate) { g.newSuffix = fn }
}

// NewGate returns a Gate for secret. An empty secret rejects every password.
func NewGate(secret string, opts ...Option) *Gate {
	g := &Gate{
		secret:    secret,
		now:       time.Now,
		newSuffix: func() string { return uuid.New().String()[:8] },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login compares password with the configured secret and issues a session.
func (g *Gate) Login(password string, rememberMe bool) (Session, error) {
	if g.secret == "" || subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) != 1 {
		return Session{}, ErrUnauthorized
	}

	now := g.now()
	maxAge := DefaultMaxAge
	if rememberMe {
		maxAge = RememberMaxAge
	}

	token := strconv.FormatInt(now.UnixMilli(), 36) + g.newSuffix()
	if g.signer != nil {
		signed, err := g.signer.Sign(token, now, maxAge)
		if err != nil {
			return Session{}, err
		}
		token = signed
	}

	return Session{Token: token, IssuedAt: now, MaxAge: maxAge}, nil
}

// Verify checks a cookie value. Unsigned gates accept any non-empty value.
func (g *Gate) Verify(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	if g.signer == nil {
		return nil
	}
	if _, err := g.signer.Verify(token, g.now()); err != nil {
		return err
	}
	return nil
}

// Signed reports whether the gate issues signed tokens.
func (g *Gate) Signed() bool {
	return g.signer != nil
}

// Cookie builds the Set-Cookie value for s.
func Cookie(s Session, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(s.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(c.Value)
	if value == "" {
		return "", false
	}
	return value, true
}
