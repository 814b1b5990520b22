// Package metrics счётчики Prometheus для /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ulink_http_requests_total",
		Help: "Количество HTTP запросов по маршруту, методу и статусу",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ulink_http_request_duration_seconds",
		Help:    "Время обработки HTTP запроса",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"route", "method"})

	Redirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ulink_redirects_total",
		Help: "Количество выполненных редиректов",
	})

	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ulink_links_created_total",
		Help: "Количество созданных ссылок",
	})

	AccountsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ulink_accounts_registered_total",
		Help: "Количество зарегистрированных аккаунтов",
	})

	PurgeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ulink_analytics_purge_failures_total",
		Help: "Удаления аналитики, не выполненные после всех попыток",
	})
)
