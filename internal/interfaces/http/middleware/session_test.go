package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/obpp/dashboard/internal/infrastructure/logger"
	"github.com/obpp/dashboard/internal/infrastructure/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(t *testing.T, secure bool) (*gin.Engine, *session.Store) {
	t.Helper()
	store := session.NewStore(session.Config{TTL: 10 * time.Minute, CleanupInterval: time.Minute})
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	router.Use(Session(store, SessionConfig{CookieName: "obpp_session", TTL: 10 * time.Minute, Secure: secure}))
	router.GET("/test", func(c *gin.Context) {
		sess := GetSession(c)
		require.NotNil(t, sess)
		assert.Equal(t, sess.ID, logger.GetSessionID(c.Request.Context()))
		c.String(http.StatusOK, sess.ID)
	})
	return router, store
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "obpp_session" {
			return c
		}
	}
	return nil
}

func TestSession(t *testing.T) {
	t.Run("starts a session and sets the cookie", func(t *testing.T) {
		router, store := sessionRouter(t, true)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		require.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.Equal(t, w.Body.String(), cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, 600, cookie.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, 1, store.Size())
	})

	t.Run("reuses the session named by the cookie", func(t *testing.T) {
		router, store := sessionRouter(t, false)
		sess := store.Create()

		req := httptest.NewRequest("GET", "/test", nil)
		req.AddCookie(&http.Cookie{Name: "obpp_session", Value: sess.ID})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, sess.ID, w.Body.String())
		assert.Nil(t, sessionCookie(w))
		assert.Equal(t, 1, store.Size())
	})

	t.Run("unknown cookie starts a new session", func(t *testing.T) {
		router, _ := sessionRouter(t, false)

		req := httptest.NewRequest("GET", "/test", nil)
		req.AddCookie(&http.Cookie{Name: "obpp_session", Value: "expired-id"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, "expired-id", w.Body.String())
		require.NotNil(t, sessionCookie(w))
	})
}

func TestGetSession_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetSession(c))
}
