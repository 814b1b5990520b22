package models

import (
	"time"
)

// Значения по умолчанию для полей ClientInfo
const (
	Unknown        = "Unknown"
	DirectReferrer = "Direct"
	IPv4           = "IPv4"
	IPv6           = "IPv6"
)

// ClientInfo снимок метаданных клиента на момент перехода.
//
// Поля, которые зависят от прокси/CDN (country, isp, screen_size,
// window_size), без такого обогащения равны Unknown. Referrer по умолчанию
// Direct, Version пустая строка, если браузер не распознан.
type ClientInfo struct {
	IP             string    `json:"ip" bson:"ip"`
	UserAgent      string    `json:"user_agent" bson:"user_agent"`
	Platform       string    `json:"platform" bson:"platform"`
	Browser        string    `json:"browser" bson:"browser"`
	Version        string    `json:"version" bson:"version"`
	Language       string    `json:"language" bson:"language"`
	Referrer       string    `json:"referrer" bson:"referrer"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
	RemotePort     string    `json:"remote_port" bson:"remote_port"`
	Accept         string    `json:"accept" bson:"accept"`
	AcceptLanguage string    `json:"accept_language" bson:"accept_language"`
	AcceptEncoding string    `json:"accept_encoding" bson:"accept_encoding"`
	ScreenSize     string    `json:"screen_size" bson:"screen_size"`
	WindowSize     string    `json:"window_size" bson:"window_size"`
	Country        string    `json:"country" bson:"country"`
	ISP            string    `json:"isp" bson:"isp"`
	IPVersion      string    `json:"ip_version" bson:"ip_version"`
}

// AnalyticsEvent один переход по короткой ссылке
type AnalyticsEvent struct {
	LinkID     string `json:"link_id" bson:"link_id"`
	AccountID  string `json:"account_id" bson:"account_id"`
	ClientInfo `bson:",inline"`
}

type AccountAnalytics struct {
	Links     []Link           `json:"links"`
	Analytics []AnalyticsEvent `json:"analytics"`
}

type LinkAnalytics struct {
	Link      Link             `json:"link"`
	Analytics []AnalyticsEvent `json:"analytics"`
}
