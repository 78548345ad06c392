package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/security"
)

// The two coarse mirror cookies let the reverse proxy do cheap route checks
// without parsing the signed session cookie. They are deliberately not
// httpOnly, matching the wire contract.
const (
	mirrorTokenCookie  = "authToken"
	mirrorStatusCookie = "userStatus"
)

func (h HandlerSet) setSessionCookies(c *gin.Context, sid string, s models.Session) error {
	signed, err := security.SignSessionCookie(h.cfg.Session.CookieSecret, sid, h.cfg.Session.TTL)
	if err != nil {
		return err
	}

	maxAge := int(h.cfg.Session.TTL.Seconds())
	secure := h.cfg.Session.Secure

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.Session.CookieName, signed, maxAge, "/", "", secure, true)
	c.SetCookie(mirrorTokenCookie, s.Token, maxAge, "/", "", secure, false)
	c.SetCookie(mirrorStatusCookie, string(s.Status), maxAge, "/", "", secure, false)
	return nil
}

func (h HandlerSet) clearSessionCookies(c *gin.Context) {
	secure := h.cfg.Session.Secure
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", secure, true)
	c.SetCookie(mirrorTokenCookie, "", -1, "/", "", secure, false)
	c.SetCookie(mirrorStatusCookie, "", -1, "/", "", secure, false)
}
