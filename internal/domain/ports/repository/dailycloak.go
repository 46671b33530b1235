package repository

import (
	"context"

	"payment-webhook-relay/internal/domain/model"
)

// RecordPatch is the partial update applied to a customerPaymentIntent row.
// Nil / zero fields are left untouched. Prepend fields push one snapshot onto
// the front of the matching history array (newest-first ordering is owned by
// the store).
type RecordPatch struct {
	Status               *model.PaymentStatus
	TransactionRemark    map[string]interface{}
	StripeInvoiceID      *string
	StripeInvoiceDetails map[string]interface{}

	PrependRemarkHistory  map[string]interface{}
	PrependInvoiceHistory map[string]interface{}

	IncSMSAttempt          int
	IncPaymentRetryAttempt int
	Requires3DSecure       *bool
}

// DailycloakStore is the central store holding customerPaymentIntent records.
type DailycloakStore interface {
	// FindByStripeID matches records by exact id: stripeInvoiceId for invoice
	// events, stripePaymentIntentId for payment-intent events. Zero matches is
	// not an error; callers use the first match when several come back.
	FindByStripeID(ctx context.Context, kind model.ObjectKind, objectID string) ([]*model.CustomerPaymentIntent, error)

	UpdatePaymentIntent(ctx context.Context, recordID string, patch RecordPatch) error

	InsertHistory(ctx context.Context, recordID string, entries ...*model.HistoryEntry) error
}
