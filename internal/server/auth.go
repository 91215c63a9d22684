package server

import (
	"net/http"
	"net/url"
	"strings"

	"filedepot/internal/config"

	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware handles authentication by checking session cookies.
// If unauthenticated, it redirects browsers to /login or returns 401 JSON
// for API requests.
func SessionAuthMiddleware(cfg *config.Config, store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// If authentication is disabled, proceed without checks
		if !cfg.EnableAuth {
			c.Next()
			return
		}

		// Skip authentication for login routes and public assets
		p := c.Request.URL.Path
		if p == "/login" || p == "/version" || p == "/favicon.ico" || strings.HasPrefix(p, "/static/") {
			c.Next()
			return
		}

		// Check for session cookie
		cookie, err := c.Cookie(sessionCookieName)
		if err == nil && store.Valid(cookie) {
			c.Next()
			return
		}

		// Determine if this is a browser request
		accept := c.GetHeader("Accept")
		xmlHttpRequest := c.GetHeader("X-Requested-With")
		isBrowser := strings.Contains(accept, "text/html") && xmlHttpRequest != "XMLHttpRequest"

		if isBrowser {
			nextURL := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/login?next="+nextURL)
			c.Abort()
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			c.Abort()
		}
	}
}
