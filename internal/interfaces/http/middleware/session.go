package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/obpp/dashboard/internal/infrastructure/logger"
	"github.com/obpp/dashboard/internal/infrastructure/session"
)

const sessionKey = "session"

// SessionStore resolves a cookie value to a live session
type SessionStore interface {
	GetOrCreate(id string) (*session.Session, bool)
}

// SessionConfig holds the session cookie settings
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session attaches the visitor's session to the request, starting one and
// setting the cookie when the cookie is missing or its session expired.
func Session(store SessionStore, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.CookieName)
		sess, created := store.GetOrCreate(id)
		if created {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				Secure:   cfg.Secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(sessionKey, sess)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sess.ID))
		c.Next()
	}
}

// GetSession returns the session attached by Session, or nil
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
