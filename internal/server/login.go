package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "filedepot_session"

// showLogin renders the login template with optional error message and
// next path from query param
func (s *Server) showLogin(c *gin.Context) {
	next := validateRedirectURL(c.DefaultQuery("next", "/"))

	data := gin.H{
		"next": next,
	}
	if errorMsg := c.Query("error"); errorMsg != "" {
		data["error"] = errorMsg
	}

	if err := s.loginTmpl.ExecuteTemplate(c.Writer, "login.html", data); err != nil {
		http.Error(c.Writer, "failed to render login page", http.StatusInternalServerError)
	}
}

// doLogin handles login form submission (both form-encoded and JSON)
func (s *Server) doLogin(c *gin.Context) {
	var username, password, next string

	contentType := c.GetHeader("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var jsonData struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Next     string `json:"next"`
		}

		if err := c.ShouldBindJSON(&jsonData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		username = jsonData.Username
		password = jsonData.Password
		next = jsonData.Next
	} else {
		username = c.PostForm("username")
		password = c.PostForm("password")
		next = c.PostForm("next")
	}

	// Validate and sanitize next URL to prevent open redirect attacks
	next = validateRedirectURL(next)

	if !s.validateCredentials(username, password) {
		acceptHeader := c.GetHeader("Accept")
		if strings.Contains(acceptHeader, "application/json") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		data := gin.H{
			"error": "Invalid username or password",
			"next":  next,
		}
		if err := s.loginTmpl.ExecuteTemplate(c.Writer, "login.html", data); err != nil {
			http.Error(c.Writer, "failed to render login page", http.StatusInternalServerError)
		}
		return
	}

	token := s.sessions.NewToken()
	s.sessions.Add(token)

	secure := c.Request.TLS != nil // Secure flag only for HTTPS
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		sessionCookieName,
		token,
		0, // session cookie
		"/",
		"",
		secure,
		true, // httpOnly
	)

	if strings.Contains(contentType, "application/json") {
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": next})
	} else {
		c.Redirect(http.StatusFound, next)
	}
}

// validateCredentials checks a login attempt against the configured
// credentials. A configured bcrypt hash takes precedence over the plain
// password; the plain comparison is constant-time.
func (s *Server) validateCredentials(username, password string) bool {
	cfg := s.config
	if !cfg.EnableAuth || cfg.Username == "" {
		return false
	}
	if cfg.PasswordHash == "" && cfg.Password == "" {
		return false
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1

	var passwordMatch bool
	if cfg.PasswordHash != "" {
		passwordMatch = bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) == nil
	} else {
		passwordMatch = subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	}

	return usernameMatch && passwordMatch
}

// validateRedirectURL validates the next URL to prevent open redirect attacks
func validateRedirectURL(next string) string {
	if next == "" {
		return "/"
	}

	// Only allow relative paths that start with "/" and don't contain
	// "://" or start with "//"
	if !strings.HasPrefix(next, "/") || strings.Contains(next, "://") || strings.HasPrefix(next, "//") {
		return "/"
	}

	return next
}
