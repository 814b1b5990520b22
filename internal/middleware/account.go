package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// AccountCookie имя cookie с идентификатором аккаунта
	AccountCookie = "account_id"

	accountCookieMaxAge = 31536000 // 1 год

	accountIDKey  = "account_id"
	loggedInKey   = "account_logged_in"
	cookieNameKey = "account_cookie_name"
)

// AccountConfig конфигурация для cookie аутентификации
type AccountConfig struct {
	// CookieName имя cookie (по умолчанию: account_id)
	CookieName string
}

// DefaultAccountConfig конфигурация по умолчанию
var DefaultAccountConfig = AccountConfig{
	CookieName: AccountCookie,
}

// Account middleware, переносящий account_id из cookie в контекст.
// Запросы без cookie не отклоняются: решение принимает обработчик.
type Account struct {
	config AccountConfig
}

// NewAccount создаёт новый account middleware
func NewAccount(config AccountConfig) *Account {
	if config.CookieName == "" {
		config.CookieName = DefaultAccountConfig.CookieName
	}
	return &Account{config: config}
}

// Middleware возвращает Gin middleware handler
func (a *Account) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cookieNameKey, a.config.CookieName)

		cookie, err := c.Request.Cookie(a.config.CookieName)
		if err != nil || cookie.Value == "" {
			c.Set(loggedInKey, false)
			c.Next()
			return
		}

		c.Set(loggedInKey, true)
		c.Set(accountIDKey, cookie.Value)
		c.Next()
	}
}

// OptionalAccount хелпер для middleware с настройками по умолчанию
func OptionalAccount() gin.HandlerFunc {
	return NewAccount(DefaultAccountConfig).Middleware()
}

// GetAccountID извлекает account_id из контекста, "" если cookie нет
func GetAccountID(c *gin.Context) string {
	return c.GetString(accountIDKey)
}

// IsLoggedIn проверяет наличие cookie аккаунта
func IsLoggedIn(c *gin.Context) bool {
	return c.GetBool(loggedInKey)
}

// SetAccountCookie выставляет cookie на год
func SetAccountCookie(c *gin.Context, accountID string) {
	http.SetCookie(c.Writer, accountCookie(c, accountID, accountCookieMaxAge))
}

// ClearAccountCookie удаляет cookie; повторный вызов безопасен
func ClearAccountCookie(c *gin.Context) {
	http.SetCookie(c.Writer, accountCookie(c, "", -1))
}

// accountCookie пишет cookie под именем, с которым её читает middleware
func accountCookie(c *gin.Context, value string, maxAge int) *http.Cookie {
	name := c.GetString(cookieNameKey)
	if name == "" {
		name = AccountCookie
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}
