package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StoreCalls считает обращения к удалённому хранилищу по таблицам.
	StoreCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_store_calls_total",
		Help: "Обращения к хранилищу: таблица, операция, исход.",
	}, []string{"table", "op", "outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskhub_http_requests_total",
		Help: "HTTP-запросы по методу, пути-шаблону и статусу.",
	}, []string{"method", "path", "status"})

	TokensGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskhub_reset_tokens_generated_total",
		Help: "Выданные токены сброса пароля.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveStoreCall(table, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreCalls.WithLabelValues(table, op, outcome).Inc()
}
