package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-studio/mvp-planner-backend/internal/auth"
)

const testCookie = "mvp_session"

func setupSessionRouter(t *testing.T) (*gin.Engine, *auth.SessionStore) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := auth.NewSessionStore(rdb, time.Hour)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	guarded := r.Group("/api")
	guarded.Use(auth.RequireUser(store, testCookie))
	guarded.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "user_id": auth.UserID(c), "username": auth.Username(c)})
	})
	return r, store
}

func TestGuardedRouteRejectsAnonymous(t *testing.T) {
	r, _ := setupSessionRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardedRouteAcceptsLiveSession(t *testing.T) {
	r, store := setupSessionRouter(t)

	sess, err := store.Create(context.Background(), "user-42", "casey")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sess.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
	assert.Contains(t, w.Body.String(), "casey")
}

func TestGuardedRouteRejectsDeletedSession(t *testing.T) {
	r, store := setupSessionRouter(t)

	sess, err := store.Create(context.Background(), "user-42", "casey")
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), sess.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sess.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardedRouteRejectsForgedCookie(t *testing.T) {
	r, _ := setupSessionRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "not-a-real-session"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
