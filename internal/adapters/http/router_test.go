package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antirom-design/funkhaus/internal/config"
	"github.com/antirom-design/funkhaus/internal/storage"
)

func newLikesRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.OpenLikeStore(filepath.Join(t.TempDir(), "likes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewLikesHandler(store)
	r := gin.New()
	r.POST("/api/likes", h.AddLike)
	r.DELETE("/api/likes/:gameModeId", h.RemoveLike)
	r.GET("/api/likes/:gameModeId", h.GetDetails)
	r.GET("/api/games", h.ListGameModes)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLikesEndpoints(t *testing.T) {
	r := newLikesRouter(t)

	// Missing fields are a 400.
	w := doJSON(r, http.MethodPost, "/api/likes", `{"gameModeId":"tafel"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/likes", `{"gameModeId":"tafel","userId":"u1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"likeCount":1,"userLiked":true}`, w.Body.String())

	// A second like from the same user conflicts.
	w = doJSON(r, http.MethodPost, "/api/likes", `{"gameModeId":"tafel","userId":"u1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodGet, "/api/likes/tafel?userId=u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"gameModeId":"tafel","likeCount":1,"userLiked":true}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/games?userId=u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"games":[{"gameModeId":"tafel","likeCount":1,"userLiked":true}]}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/api/likes/tafel", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"likeCount":0,"userLiked":false}`, w.Body.String())

	// Removing an absent like is a 404.
	w = doJSON(r, http.MethodDelete, "/api/likes/tafel", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	protected := func(cfg *config.Config) *gin.Engine {
		r := gin.New()
		r.GET("/api/admin/houses", AdminAuth(cfg), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"houses": []string{}})
		})
		return r
	}

	r := protected(&config.Config{AdminPassword: "secret"})

	w := doJSON(r, http.MethodGet, "/api/admin/houses", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/houses", nil)
	req.Header.Set("X-Admin-Password", "wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req.Header.Set("X-Admin-Password", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// No password configured means the endpoint stays locked.
	r = protected(&config.Config{})
	req = httptest.NewRequest(http.MethodGet, "/api/admin/houses", nil)
	req.Header.Set("X-Admin-Password", "")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
