// AngelaMos | 2026
// cookie.go

package auth

import (
	"net/http"
	"time"

	"github.com/lamjungdrops/storefront/internal/config"
)

// CookieWriter sets and clears the session cookie. Secure is only set in
// production so the cookie still works over plain http in development.
type CookieWriter struct {
	cfg    config.CookieConfig
	secure bool
}

func NewCookieWriter(cfg config.CookieConfig, production bool) *CookieWriter {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieWriter{cfg: cfg, secure: production}
}

func (c *CookieWriter) Name() string {
	return c.cfg.Name
}

func (c *CookieWriter) Set(w http.ResponseWriter, token *IssuedToken, now time.Time) {
	maxAge := int(token.ExpiresAt.Sub(now) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    token.Value,
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		Expires:  token.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    "",
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
