package model

import "github.com/oklog/ulid/v2"

// Organization holds per-tenant routing data resolved from dailycloak.
// AdminSecret and OrganizationURL locate the tenant's own datahub endpoint.
type Organization struct {
	ID              string
	StripeAccountID string
	AdminSecret     string
	OrganizationURL string
}

// CustomerPaymentIntent links a Stripe payment intent / invoice to an
// organization and a cart. It is the only record this system mutates in
// dailycloak.
type CustomerPaymentIntent struct {
	ID                  string
	CartID              string // transferGroup
	SMSAttempt          int
	PaymentRetryAttempt int
	Organization        *Organization
}

type HistoryType string

const (
	HistoryInvoice       HistoryType = "INVOICE"
	HistoryPaymentIntent HistoryType = "PAYMENT_INTENT"
)

// HistoryEntry is one append-only audit row written to both stores.
type HistoryEntry struct {
	ID       string
	Type     HistoryType
	Status   PaymentStatus
	Snapshot map[string]interface{}
}

// NewHistoryEntry assigns a ULID so rows sort by creation time.
func NewHistoryEntry(t HistoryType, status PaymentStatus, snapshot map[string]interface{}) *HistoryEntry {
	return &HistoryEntry{
		ID:       ulid.Make().String(),
		Type:     t,
		Status:   status,
		Snapshot: snapshot,
	}
}
