package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"payment-webhook-relay/internal/domain/ports/adapter"
	"payment-webhook-relay/internal/usecase"
)

// Server exposes the webhook endpoint plus health and metrics.
type Server struct {
	provider adapter.PaymentProvider
	uc       usecase.WebhookUseCase
	log      *zerolog.Logger
}

func NewServer(provider adapter.PaymentProvider, uc usecase.WebhookUseCase, logger *zerolog.Logger) *Server {
	return &Server{provider: provider, uc: uc, log: logger}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Post("/api/webhook/payment-intent", s.handleWebhook)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
