// Package clientinfo собирает метаданные клиента из входящего запроса.
package clientinfo

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/mssola/user_agent"
	"golang.org/x/text/language"
)

// Заголовки, которые добавляют прокси/CDN или браузер через client hints
const (
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderRealIP         = "X-Real-IP"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderPlatform       = "Sec-CH-UA-Platform"
	HeaderScreen         = "Sec-CH-UA-Platform-Screen"
	HeaderViewport       = "Viewport-Width"
	HeaderCountry        = "CF-IPCountry"
	HeaderISP            = "X-ISP"
)

// Extract чистая функция запроса: отсутствующие значения заменяются
// значениями по умолчанию из models.
func Extract(r *http.Request, now time.Time) models.ClientInfo {
	ua := user_agent.New(r.UserAgent())
	host, port := splitRemoteAddr(r.RemoteAddr)
	ip := clientIP(r, host)

	browser, version := ua.Browser()

	return models.ClientInfo{
		IP:             ip,
		UserAgent:      r.UserAgent(),
		Platform:       platform(r, ua),
		Browser:        valueOrDefault(browser, models.Unknown),
		Version:        version,
		Language:       bestLanguage(r.Header.Get("Accept-Language")),
		Referrer:       valueOrDefault(r.Referer(), models.DirectReferrer),
		Timestamp:      now,
		RemotePort:     valueOrDefault(port, models.Unknown),
		Accept:         header(r, "Accept"),
		AcceptLanguage: header(r, "Accept-Language"),
		AcceptEncoding: header(r, "Accept-Encoding"),
		ScreenSize:     header(r, HeaderScreen),
		WindowSize:     header(r, HeaderViewport),
		Country:        header(r, HeaderCountry),
		ISP:            header(r, HeaderISP),
		IPVersion:      IPVersion(ip),
	}
}

// IPVersion IPv4 для v4 и v4-mapped адресов, IPv6 для остальных.
// Нераспознанная строка классифицируется по наличию двоеточия.
func IPVersion(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil {
		if parsed.To4() != nil {
			return models.IPv4
		}
		return models.IPv6
	}
	if strings.Contains(ip, ":") {
		return models.IPv6
	}
	return models.IPv4
}

func clientIP(r *http.Request, remoteHost string) string {
	if ip := strings.TrimSpace(r.Header.Get(HeaderCFConnectingIP)); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get(HeaderRealIP)); ip != "" {
		return ip
	}
	if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return valueOrDefault(remoteHost, models.Unknown)
}

func splitRemoteAddr(addr string) (host, port string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, ""
	}
	return host, port
}

// platform client hint приходит в кавычках: "Windows"
func platform(r *http.Request, ua *user_agent.UserAgent) string {
	if hint := strings.Trim(strings.TrimSpace(r.Header.Get(HeaderPlatform)), `"`); hint != "" {
		return hint
	}
	return valueOrDefault(ua.OS(), models.Unknown)
}

// bestLanguage берёт запись с наибольшим q (при равенстве первую).
// Разобранный тег приводится к канонической форме, остальные записи,
// включая "*", возвращаются как есть.
func bestLanguage(acceptLanguage string) string {
	best, bestQ := "", 0.0
	for _, entry := range strings.Split(acceptLanguage, ",") {
		value, params, _ := strings.Cut(entry, ";")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if q := quality(params); q > bestQ {
			best, bestQ = value, q
		}
	}
	if best == "" {
		return models.Unknown
	}
	if best == "*" {
		return best
	}
	if tag, err := language.Parse(best); err == nil && tag != language.Und {
		return tag.String()
	}
	return best
}

// quality значение q из параметров записи, 1 по умолчанию
func quality(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(param, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || q < 0 {
			return 0
		}
		return min(q, 1)
	}
	return 1
}

func header(r *http.Request, name string) string {
	return valueOrDefault(r.Header.Get(name), models.Unknown)
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
