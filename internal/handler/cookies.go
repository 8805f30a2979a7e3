package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/mycareerchoices/compass-backend/internal/middleware"
	"github.com/mycareerchoices/compass-backend/internal/service"
)

// setAuthCookies installs a full token pair: HTTP-only cookies for the
// tokens themselves, readable cookies for the CSRF values so the frontend
// can echo them back in the X-CSRF-Token header.
func setAuthCookies(c *gin.Context, cfg *config.Config, pair *service.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	accessAge := int(time.Until(pair.AccessExpiresAt).Seconds())
	refreshAge := int(time.Until(pair.RefreshExpiresAt).Seconds())

	c.SetCookie(middleware.CookieAccessToken, pair.AccessToken, accessAge, "/", "", cfg.CookieSecure, true)
	c.SetCookie(middleware.CookieAccessCSRF, pair.AccessCSRF, accessAge, "/", "", cfg.CookieSecure, false)
	c.SetCookie(middleware.CookieRefreshToken, pair.RefreshToken, refreshAge, "/", "", cfg.CookieSecure, true)
	c.SetCookie(middleware.CookieRefreshCSRF, pair.RefreshCSRF, refreshAge, "/", "", cfg.CookieSecure, false)
}

// setAccessCookies replaces only the access token and its CSRF cookie,
// leaving the refresh pair untouched.
func setAccessCookies(c *gin.Context, cfg *config.Config, token, csrf string, expiresAt time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	age := int(time.Until(expiresAt).Seconds())
	c.SetCookie(middleware.CookieAccessToken, token, age, "/", "", cfg.CookieSecure, true)
	c.SetCookie(middleware.CookieAccessCSRF, csrf, age, "/", "", cfg.CookieSecure, false)
}

// clearAuthCookies expires every auth cookie.
func clearAuthCookies(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	for _, name := range []string{
		middleware.CookieAccessToken,
		middleware.CookieAccessCSRF,
		middleware.CookieRefreshToken,
		middleware.CookieRefreshCSRF,
	} {
		c.SetCookie(name, "", -1, "/", "", cfg.CookieSecure, true)
	}
}
