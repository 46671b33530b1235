//go:build !integration

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"payment-webhook-relay/internal/infra/logging"
)

func logField(t *testing.T, line, key string) string {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("unparseable log line %q: %v", line, err)
	}
	v, _ := m[key].(string)
	return v
}

func TestTraceIDPropagation(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.With(r.Context(), &logger).Info().Msg("handling")
		w.WriteHeader(http.StatusNoContent)
	})
	h := TraceID()(RequestLog(&logger)(inner))

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/payment-intent", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected handler log and request log, got %d lines", len(lines))
	}
	handlerTID := logField(t, lines[0], "trace_id")
	requestTID := logField(t, lines[1], "trace_id")
	if handlerTID == "" {
		t.Fatal("expected a trace_id on the handler log line")
	}
	if handlerTID != requestTID {
		t.Errorf("trace_id differs between handler (%s) and request log (%s)", handlerTID, requestTID)
	}
}

func TestRequestLogRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestLog(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("expected status 418 in request log, got %s", out)
	}
	if !strings.Contains(out, `"path":"/healthz"`) {
		t.Errorf("expected path in request log, got %s", out)
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Recover(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/webhook/payment-intent", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "handler panic") {
		t.Errorf("expected the panic to be logged, got %s", buf.String())
	}
}
