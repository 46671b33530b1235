package model

// ObjectKind discriminates the resource embedded in a webhook event.
type ObjectKind string

const (
	KindInvoice       ObjectKind = "invoice"
	KindPaymentIntent ObjectKind = "payment_intent"
)

// WebhookEvent is the verified inbound notification. It is built once per
// request from the raw signed body and never stored.
type WebhookEvent struct {
	ID      string
	Type    string // e.g. "payment_intent.succeeded"
	Account string // connected account id, empty for platform events
	Kind    ObjectKind

	// Exactly one of these is set when Kind is recognized.
	Invoice       *Invoice
	PaymentIntent *PaymentIntent
}

// ObjectID returns the id of the embedded resource.
func (e *WebhookEvent) ObjectID() string {
	switch e.Kind {
	case KindInvoice:
		if e.Invoice != nil {
			return e.Invoice.ID
		}
	case KindPaymentIntent:
		if e.PaymentIntent != nil {
			return e.PaymentIntent.ID
		}
	}
	return ""
}

// Invoice is the vendor billing document. Read-only from this system's
// perspective; Details holds the raw object for snapshotting.
type Invoice struct {
	ID                      string
	Status                  string
	PaymentIntentID         string
	HasDefaultPaymentMethod bool
	Details                 map[string]interface{}
}

// PaymentIntent is the vendor payment attempt. DeclineCode is taken from
// last_payment_error when present.
type PaymentIntent struct {
	ID          string
	Status      string
	DeclineCode string
	Details     map[string]interface{}
}

// StripLines returns a copy of a details snapshot without the "lines" field.
// Invoice line items dominate the payload size and are never read downstream.
func StripLines(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}
	out := make(map[string]interface{}, len(details))
	for k, v := range details {
		if k == "lines" {
			continue
		}
		out[k] = v
	}
	return out
}
