package adapter

import (
	"context"

	"payment-webhook-relay/internal/domain/model"
)

// PaymentProvider is the hex port for the payment vendor (Stripe).
type PaymentProvider interface {
	// VerifyEvent authenticates the raw signed payload and returns the parsed
	// event. Verification runs over the exact bytes received, never a
	// re-serialized object. Returns domain.ErrInvalidSignature on failure.
	VerifyEvent(payload []byte, sigHeader string) (*model.WebhookEvent, error)

	// RetrievePaymentIntent fetches the full payment intent, in the connected
	// account context when stripeAccount is non-empty.
	RetrievePaymentIntent(ctx context.Context, id, stripeAccount string) (*model.PaymentIntent, error)
}
