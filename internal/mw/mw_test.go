package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"minecontrol-backend/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCache_ServesHitsAndFlushesOnWrite(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.GET("/items", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/items", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.POST("/fail", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no"})
	})

	first := serve(r, http.MethodGet, "/items", nil)
	second := serve(r, http.MethodGet, "/items", nil)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	serve(r, http.MethodPost, "/fail", nil)
	serve(r, http.MethodGet, "/items", nil)
	assert.Equal(t, 1, calls, "failed writes keep the cache")

	serve(r, http.MethodPost, "/items", nil)
	third := serve(r, http.MethodGet, "/items", nil)
	assert.Equal(t, 2, calls)
	assert.JSONEq(t, `{"calls":2}`, third.Body.String())
}

func TestCache_EntriesAreScopedToThePrincipal(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			SetPrincipal(c, auth.Principal{UserID: 1, Username: "u", Role: role})
		}
		c.Next()
	}, Cache(store, time.Minute))
	r.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": PrincipalFrom(c).Role})
	})

	admin := http.Header{"X-Test-Role": {"Administrador"}}
	operator := http.Header{"X-Test-Role": {"Operador"}}

	serve(r, http.MethodGet, "/users", admin)
	w := serve(r, http.MethodGet, "/users", operator)
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"role":"Operador"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/users", admin)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"role":"Administrador"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/", nil).Code)
}

func TestIPRateLimiter_ReusesLimiterPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
}

func TestAuthenticate(t *testing.T) {
	iss := auth.NewIssuer("secret", time.Hour)
	token, err := iss.Issue(auth.Principal{UserID: 2, Username: "jefe", Role: "Supervisor"})
	require.NoError(t, err)

	newRouter := func(required bool) *gin.Engine {
		r := gin.New()
		r.Use(Authenticate(iss, required))
		r.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"username": PrincipalFrom(c).Username})
		})
		r.GET("/admin", RequireRole("Administrador"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}
	bearer := http.Header{"Authorization": []string{"Bearer " + token}}

	t.Run("optional without token is anonymous", func(t *testing.T) {
		w := serve(newRouter(false), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"anonymous"}`, w.Body.String())
	})

	t.Run("required without token", func(t *testing.T) {
		w := serve(newRouter(true), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := serve(newRouter(true), http.MethodGet, "/me", bearer)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"jefe"}`, w.Body.String())
	})

	t.Run("invalid token is rejected even when optional", func(t *testing.T) {
		w := serve(newRouter(false), http.MethodGet, "/me", http.Header{"Authorization": []string{"Bearer garbage"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role check", func(t *testing.T) {
		w := serve(newRouter(true), http.MethodGet, "/admin", bearer)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role check refuses anonymous callers when optional", func(t *testing.T) {
		w := serve(newRouter(false), http.MethodGet, "/admin", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"missing token"}`, w.Body.String())
	})

	t.Run("role check admits the listed role", func(t *testing.T) {
		adminToken, err := iss.Issue(auth.Principal{UserID: 1, Username: "root", Role: "administrador"})
		require.NoError(t, err)
		w := serve(newRouter(false), http.MethodGet, "/admin", http.Header{"Authorization": []string{"Bearer " + adminToken}})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := serve(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	const sent = "9b2f5c52-3d3c-4a6e-9a55-0d6f1c8b1e11"
	w = serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": []string{sent}})
	assert.Equal(t, sent, w.Body.String())
}
