package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeiKhy/ulink-shortener/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newAccountRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.OptionalAccount())
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"account_id": middleware.GetAccountID(c),
			"logged_in":  middleware.IsLoggedIn(c),
		})
	})
	return router
}

// TestAccount_Middleware_WithCookie проверяет перенос account_id из cookie в контекст
func TestAccount_Middleware_WithCookie(t *testing.T) {
	router := newAccountRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccountCookie, Value: "12345678"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":"12345678","logged_in":true}`, w.Body.String())
}

// TestAccount_Middleware_WithoutCookie проверяет, что запрос без cookie пропускается
func TestAccount_Middleware_WithoutCookie(t *testing.T) {
	router := newAccountRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":"","logged_in":false}`, w.Body.String())
}

// TestAccountCookie_Attributes проверяет атрибуты выставляемой и удаляемой cookie
func TestAccountCookie_Attributes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/set", func(c *gin.Context) {
		middleware.SetAccountCookie(c, "12345678")
		c.Status(http.StatusOK)
	})
	router.POST("/clear", func(c *gin.Context) {
		middleware.ClearAccountCookie(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/set", nil)
	router.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.AccountCookie, cookie.Name)
	assert.Equal(t, "12345678", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 31536000, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/clear", nil)
	router.ServeHTTP(w, req)

	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

// TestAccount_CustomCookieName проверяет, что cookie пишется и читается под одним именем
func TestAccount_CustomCookieName(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.NewAccount(middleware.AccountConfig{CookieName: "ulink_account"}).Middleware())
	router.POST("/login", func(c *gin.Context) {
		middleware.SetAccountCookie(c, "12345678")
		c.Status(http.StatusOK)
	})
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetAccountID(c))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", nil)
	router.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "ulink_account", cookies[0].Name)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/whoami", nil)
	req.AddCookie(cookies[0])
	router.ServeHTTP(w, req)

	assert.Equal(t, "12345678", w.Body.String())
}

// TestRequestLogger проверяет поля лога запроса и уровень по статусу
func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(middleware.RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
	}

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])

	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}

// TestMetrics_Middleware проверяет, что middleware не мешает обработке
func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.Metrics())
	router.GET("/l/:short_id", func(c *gin.Context) { c.Status(http.StatusFound) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/l/abcdEFGH", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/nowhere", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
