package repository

import "context"

// DeliveryLog guards against redelivered webhook events. Stripe retries on
// timeout and non-2xx, and a re-run would prepend duplicate history entries.
type DeliveryLog interface {
	// FirstDelivery records the event id and reports whether this is the
	// first time it has been seen within the retention window.
	FirstDelivery(ctx context.Context, eventID string) (bool, error)

	// Forget releases a recorded event id. Called when processing fails so
	// the vendor's redelivery is not mistaken for a duplicate.
	Forget(ctx context.Context, eventID string) error
}
