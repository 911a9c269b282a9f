package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(sessions *auth.Sessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Prometheus())
	g := r.Group("/", RequireSession(sessions))
	g.GET("/whoami/", func(c *gin.Context) {
		c.JSON(http.StatusOK, auth.MustCurrent(c))
	})
	g.GET("/admin/", RequireSuperuser(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireSession(t *testing.T) {
	sessions := auth.NewSessions("secret", time.Hour)
	r := newRouter(sessions)
	token, _, err := sessions.Issue(&models.User{ID: 3, Username: "alice"})
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "/login/?next=%2Fwhoami%2F", w.Header().Get("Location"))
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("tampered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireSuperuser(t *testing.T) {
	sessions := auth.NewSessions("secret", time.Hour)
	r := newRouter(sessions)

	call := func(u *models.User) int {
		token, _, err := sessions.Issue(u)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, call(&models.User{ID: 1, Username: "plain"}))
	assert.Equal(t, http.StatusNoContent, call(&models.User{ID: 2, Username: "root", IsSuperuser: true}))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken(""))
}

func TestUnauthenticatedEscapesNext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x&next=//evil.example/", nil)

	unauthenticated(c, "Authentication required")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login/?next=%2Fx%26next%3D%2F%2Fevil.example%2F", w.Header().Get("Location"))
}
