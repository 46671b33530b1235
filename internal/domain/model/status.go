package model

import (
	"fmt"

	"payment-webhook-relay/internal/domain"
)

type PaymentStatus string

const (
	PaymentStatusCreated               PaymentStatus = "CREATED"
	PaymentStatusCancelled             PaymentStatus = "CANCELLED"
	PaymentStatusSucceeded             PaymentStatus = "SUCCEEDED"
	PaymentStatusProcessing            PaymentStatus = "PROCESSING"
	PaymentStatusPaymentFailed         PaymentStatus = "PAYMENT_FAILED"
	PaymentStatusRequiresAction        PaymentStatus = "REQUIRES_ACTION"
	PaymentStatusRequiresPaymentMethod PaymentStatus = "REQUIRES_PAYMENT_METHOD"
)

// stripeStatusMap is the exhaustive, case-sensitive mapping from Stripe status
// strings to the internal enumeration. Anything outside this table is a
// mapping error, never stored as-is.
var stripeStatusMap = map[string]PaymentStatus{
	"created":                 PaymentStatusCreated,
	"canceled":                PaymentStatusCancelled,
	"succeeded":               PaymentStatusSucceeded,
	"processing":              PaymentStatusProcessing,
	"payment_failed":          PaymentStatusPaymentFailed,
	"requires_action":         PaymentStatusRequiresAction,
	"requires_payment_method": PaymentStatusRequiresPaymentMethod,
}

// MapStripeStatus translates a Stripe status string to the internal status.
func MapStripeStatus(s string) (PaymentStatus, error) {
	mapped, ok := stripeStatusMap[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnmappedStatus, s)
	}
	return mapped, nil
}
