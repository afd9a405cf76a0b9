package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestExempt(t *testing.T) {
	for _, p := range []string{"/api/auth/login", "/api/image/brand-logo.png", "/static/app.css", "/blobs/x.png", "/login", "/healthz", "/favicon.ico"} {
		assert.True(t, Exempt(p), p)
	}
	for _, p := range []string{"/", "/admin", "/review/abc", "/loginx", "/apix"} {
		assert.False(t, Exempt(p), p)
	}
}

func TestMiddlewareDisabledPassesThrough(t *testing.T) {
	g := newTestGate("pw")
	h := g.Middleware(false, nil)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMiddlewareEnforced(t *testing.T) {
	g := newTestGate("pw")
	h := g.Middleware(true, nil)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin?tab=assets", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fadmin%3Ftab%3Dassets", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/review", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/test-document", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "anything"})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMiddlewareEnforcedSigned(t *testing.T) {
	signer, err := NewSigner("k")
	require.NoError(t, err)
	g := newTestGate("pw", WithSigner(signer))
	h := g.Middleware(true, nil)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	s, err := g.Login("pw", false)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.Token})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
