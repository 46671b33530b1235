package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"payment-webhook-relay/internal/config"
	"payment-webhook-relay/internal/domain"
	"payment-webhook-relay/internal/domain/model"
	"payment-webhook-relay/internal/domain/ports/adapter"
	"payment-webhook-relay/internal/infra/metrics"
)

// Compile-time check
var _ adapter.PaymentProvider = (*StripeGateway)(nil)

// StripeGateway implements the payment-provider port on the Stripe SDK.
type StripeGateway struct {
	platformSecret string
	connectSecret  string
	log            *zerolog.Logger
}

func NewStripeGateway(cfg *config.StripeConfig, logger *zerolog.Logger) (*StripeGateway, error) {
	if cfg.PlatformWebhookSecret == "" {
		return nil, fmt.Errorf("%w: platform webhook secret is empty", domain.ErrInvalidArgument)
	}
	if cfg.APIKey != "" {
		stripe.Key = cfg.APIKey
	}
	return &StripeGateway{
		platformSecret: cfg.PlatformWebhookSecret,
		connectSecret:  cfg.ConnectWebhookSecret,
		log:            logger,
	}, nil
}

// VerifyEvent authenticates the payload over its exact bytes and maps the
// embedded object into the domain event model.
func (g *StripeGateway) VerifyEvent(payload []byte, sigHeader string) (*model.WebhookEvent, error) {
	secret := g.platformSecret
	if ChooseSecret(payload) == SecretConnect && g.connectSecret != "" {
		secret = g.connectSecret
	}

	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return eventFromStripe(&ev), nil
}

func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, id, stripeAccount string) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	if stripeAccount != "" {
		params.SetStripeAccount(stripeAccount)
	}

	pi, err := paymentintent.Get(id, params)
	metrics.IncStripeRetrieve(err == nil)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve %s: %w", id, err)
	}
	return intentFromAPI(pi), nil
}

func eventFromStripe(ev *stripe.Event) *model.WebhookEvent {
	obj := map[string]interface{}{}
	if ev.Data != nil {
		obj = ev.Data.Object
	}
	kind, _ := obj["object"].(string)

	out := &model.WebhookEvent{
		ID:      ev.ID,
		Type:    string(ev.Type),
		Account: ev.Account,
		Kind:    model.ObjectKind(kind),
	}
	switch out.Kind {
	case model.KindInvoice:
		out.Invoice = invoiceFromObject(obj)
	case model.KindPaymentIntent:
		out.PaymentIntent = intentFromObject(obj)
	}
	return out
}

func invoiceFromObject(obj map[string]interface{}) *model.Invoice {
	inv := &model.Invoice{
		ID:      str(obj["id"]),
		Status:  str(obj["status"]),
		Details: obj,
	}
	// payment_intent arrives as an id string, or as a full object when
	// expanded.
	switch v := obj["payment_intent"].(type) {
	case string:
		inv.PaymentIntentID = v
	case map[string]interface{}:
		inv.PaymentIntentID = str(v["id"])
	}
	if ps, ok := obj["payment_settings"].(map[string]interface{}); ok {
		inv.HasDefaultPaymentMethod = ps["default_payment_method"] != nil
	}
	return inv
}

func intentFromObject(obj map[string]interface{}) *model.PaymentIntent {
	pi := &model.PaymentIntent{
		ID:      str(obj["id"]),
		Status:  str(obj["status"]),
		Details: obj,
	}
	if lpe, ok := obj["last_payment_error"].(map[string]interface{}); ok {
		pi.DeclineCode = str(lpe["decline_code"])
	}
	return pi
}

// intentFromAPI converts a retrieved payment intent. The snapshot comes from
// the raw response body so downstream stores see the vendor's own shape, not
// the SDK struct.
func intentFromAPI(pi *stripe.PaymentIntent) *model.PaymentIntent {
	out := &model.PaymentIntent{
		ID:     pi.ID,
		Status: string(pi.Status),
	}
	if pi.LastPaymentError != nil {
		out.DeclineCode = string(pi.LastPaymentError.DeclineCode)
	}
	if pi.LastResponse != nil && len(pi.LastResponse.RawJSON) > 0 {
		var details map[string]interface{}
		if err := json.Unmarshal(pi.LastResponse.RawJSON, &details); err == nil {
			out.Details = details
		}
	}
	if out.Details == nil {
		out.Details = map[string]interface{}{
			"id":     pi.ID,
			"object": "payment_intent",
			"status": string(pi.Status),
		}
	}
	return out
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
