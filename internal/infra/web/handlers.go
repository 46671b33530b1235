package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"payment-webhook-relay/internal/domain"
	"payment-webhook-relay/internal/infra/logging"
	"payment-webhook-relay/internal/infra/metrics"
)

// Signature verification is computed over the exact bytes received, so the
// body must be captured verbatim before any parsing. 1 MiB is far above any
// real event payload.
const maxBodyBytes = 1 << 20

const signatureHeader = "Stripe-Signature"

type receivedResponse struct {
	Received bool `json:"received"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.IncWebhookEvent("unknown", metrics.OutcomeInvalidSignature)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Webhook Error: unable to read request body"})
		return
	}

	ev, err := s.provider.VerifyEvent(payload, r.Header.Get(signatureHeader))
	if err != nil {
		logging.With(ctx, s.log).Warn().Err(err).Msg("signature verification failed")
		metrics.IncWebhookEvent("unknown", metrics.OutcomeInvalidSignature)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Webhook Error: " + err.Error()})
		return
	}

	res, err := s.uc.HandleEvent(ctx, ev)
	metrics.ObserveWebhookLatency(string(ev.Kind), time.Since(start).Milliseconds())

	switch {
	case err == nil && res.Duplicate:
		metrics.IncWebhookEvent(ev.Type, metrics.OutcomeDuplicate)
		writeJSON(w, http.StatusOK, receivedResponse{Received: true})

	case err == nil:
		metrics.IncWebhookEvent(ev.Type, metrics.OutcomeProcessed)
		writeJSON(w, http.StatusOK, receivedResponse{Received: true})

	case errors.Is(err, domain.ErrEventNotLinked):
		// Acknowledge so the vendor does not retry; the event is simply not
		// ours to process.
		metrics.IncWebhookEvent(ev.Type, metrics.OutcomeUnlinked)
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrUnmappedKind):
		metrics.IncWebhookEvent(ev.Type, metrics.OutcomeUnmapped)
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrUnmappedStatus):
		// Terminal: redelivery cannot change the mapping.
		logging.With(ctx, s.log).Error().Err(err).Str("type", ev.Type).Msg("unmapped status")
		metrics.IncWebhookEvent(ev.Type, metrics.OutcomeUnmapped)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		// Downstream failure; a non-2xx makes the vendor redeliver, which is
		// the only retry mechanism here.
		logging.With(ctx, s.log).Error().Err(err).Str("type", ev.Type).Msg("event processing failed")
		metrics.IncWebhookEvent(ev.Type, metrics.OutcomeError)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
