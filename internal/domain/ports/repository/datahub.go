package repository

import (
	"context"

	"payment-webhook-relay/internal/domain/model"
)

// CartPatch mirrors a payment update onto the tenant-side cart record.
type CartPatch struct {
	PaymentStatus     model.PaymentStatus
	TransactionID     string
	TransactionRemark map[string]interface{}
	PrependHistory    map[string]interface{}
}

// DatahubStore is the tenant store, reached through the organization's own
// endpoint and admin secret.
type DatahubStore interface {
	UpdateCart(ctx context.Context, cartID string, patch CartPatch) error

	InsertHistory(ctx context.Context, cartID string, entries ...*model.HistoryEntry) error
}

// DatahubFactory builds a store for one organization. Clients are constructed
// fresh per request since host and credential vary per tenant.
type DatahubFactory func(org *model.Organization) DatahubStore
