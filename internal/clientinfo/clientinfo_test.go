package clientinfo_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeiKhy/ulink-shortener/internal/clientinfo"
	"github.com/SergeiKhy/ulink-shortener/internal/models"
	"github.com/stretchr/testify/assert"
)

const chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestExtract_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	req := httptest.NewRequest("GET", "/l/abcdEFGH", nil)
	req.RemoteAddr = "203.0.113.7:51234"

	info := clientinfo.Extract(req, now)

	assert.Equal(t, "203.0.113.7", info.IP)
	assert.Equal(t, "51234", info.RemotePort)
	assert.Equal(t, models.IPv4, info.IPVersion)
	assert.Equal(t, models.DirectReferrer, info.Referrer)
	assert.Equal(t, models.Unknown, info.Language)
	assert.Equal(t, models.Unknown, info.Accept)
	assert.Equal(t, models.Unknown, info.AcceptLanguage)
	assert.Equal(t, models.Unknown, info.AcceptEncoding)
	assert.Equal(t, models.Unknown, info.ScreenSize)
	assert.Equal(t, models.Unknown, info.WindowSize)
	assert.Equal(t, models.Unknown, info.Country)
	assert.Equal(t, models.Unknown, info.ISP)
	assert.Equal(t, now, info.Timestamp)
}

func TestExtract_Headers(t *testing.T) {
	req := httptest.NewRequest("GET", "/l/abcdEFGH", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	req.Header.Set("User-Agent", chromeWindowsUA)
	req.Header.Set("Referer", "https://news.example/post")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en;q=0.5, de-DE")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Sec-CH-UA-Platform", `"macOS"`)
	req.Header.Set("Sec-CH-UA-Platform-Screen", "1920x1080")
	req.Header.Set("Viewport-Width", "1280")
	req.Header.Set("CF-IPCountry", "DE")
	req.Header.Set("X-ISP", "Example Telecom")

	info := clientinfo.Extract(req, time.Now())

	assert.Equal(t, "2001:db8::1", info.IP)
	assert.Equal(t, "443", info.RemotePort)
	assert.Equal(t, models.IPv6, info.IPVersion)
	assert.Equal(t, chromeWindowsUA, info.UserAgent)
	assert.Equal(t, "macOS", info.Platform)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, "120.0.0.0", info.Version)
	assert.Equal(t, "de-DE", info.Language)
	assert.Equal(t, "https://news.example/post", info.Referrer)
	assert.Equal(t, "text/html", info.Accept)
	assert.Equal(t, "en;q=0.5, de-DE", info.AcceptLanguage)
	assert.Equal(t, "gzip, br", info.AcceptEncoding)
	assert.Equal(t, "1920x1080", info.ScreenSize)
	assert.Equal(t, "1280", info.WindowSize)
	assert.Equal(t, "DE", info.Country)
	assert.Equal(t, "Example Telecom", info.ISP)
}

func TestExtract_PlatformFromUserAgent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", chromeWindowsUA)

	info := clientinfo.Extract(req, time.Now())

	assert.Contains(t, info.Platform, "Windows")
}

func TestExtract_ProxyHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "cloudflare",
			headers: map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "10.0.0.1"},
			want:    "198.51.100.1",
		},
		{
			name:    "real ip",
			headers: map[string]string{"X-Real-IP": "198.51.100.2"},
			want:    "198.51.100.2",
		},
		{
			name:    "first forwarded",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.3, 10.0.0.1"},
			want:    "198.51.100.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = "10.0.0.9:1000"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			info := clientinfo.Extract(req, time.Now())
			assert.Equal(t, tt.want, info.IP)
			assert.Equal(t, "1000", info.RemotePort)
		})
	}
}

func TestExtract_Language(t *testing.T) {
	tests := []struct {
		name           string
		acceptLanguage string
		want           string
	}{
		{"first wins on equal weight", "en-US,en;q=0.9", "en-US"},
		{"highest weight", "en;q=0.5, de-DE", "de-DE"},
		{"canonical case", "pt-br", "pt-BR"},
		{"unknown subtag kept as written", "zz-ZZ,en;q=0.1", "zz-ZZ"},
		{"malformed entry skipped", "en-US, x_bad!!", "en-US"},
		{"malformed entry with lower weight", "x_bad!!;q=0.2, fr", "fr"},
		{"only malformed entry", "x_bad!!", "x_bad!!"},
		{"wildcard", "*", "*"},
		{"zero weight", "en;q=0", models.Unknown},
		{"empty entries", " , ", models.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/l/abcdEFGH", nil)
			req.Header.Set("Accept-Language", tt.acceptLanguage)

			info := clientinfo.Extract(req, time.Now())

			assert.Equal(t, tt.want, info.Language)
			assert.Equal(t, tt.acceptLanguage, info.AcceptLanguage)
		})
	}
}

func TestIPVersion(t *testing.T) {
	assert.Equal(t, models.IPv4, clientinfo.IPVersion("192.0.2.1"))
	assert.Equal(t, models.IPv6, clientinfo.IPVersion("2001:db8::1"))
	assert.Equal(t, models.IPv4, clientinfo.IPVersion("::ffff:192.0.2.1"))
	assert.Equal(t, models.IPv6, clientinfo.IPVersion("fe80::1%eth0"))
	assert.Equal(t, models.IPv4, clientinfo.IPVersion(models.Unknown))
}
