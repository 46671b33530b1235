package graphql

import (
	"context"
	"fmt"

	gql "github.com/machinebox/graphql"
	"github.com/rs/zerolog"

	"payment-webhook-relay/internal/config"
	"payment-webhook-relay/internal/domain/model"
	"payment-webhook-relay/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.DailycloakStore = (*Dailycloak)(nil)

const recordFields = `
    id
    transferGroup
    smsAttempt
    paymentRetryAttempt
    organization {
      id
      stripeAccountId
      adminSecret
      organizationUrl
    }`

const queryRecordByInvoiceID = `
query customerPaymentIntentByInvoice($stripeInvoiceId: String!) {
  customerPaymentIntents(where: {stripeInvoiceId: {_eq: $stripeInvoiceId}}) {` + recordFields + `
  }
}`

const queryRecordByPaymentIntentID = `
query customerPaymentIntentByIntent($stripePaymentIntentId: String!) {
  customerPaymentIntents(where: {stripePaymentIntentId: {_eq: $stripePaymentIntentId}}) {` + recordFields + `
  }
}`

const mutationUpdateRecord = `
mutation updateCustomerPaymentIntent($id: uuid!, $set: customerPaymentIntents_set_input!, $inc: customerPaymentIntents_inc_input!, $prepend: customerPaymentIntents_prepend_input!) {
  updateCustomerPaymentIntents(where: {id: {_eq: $id}}, _set: $set, _inc: $inc, _prepend: $prepend) {
    affected_rows
  }
}`

const mutationInsertPaymentHistory = `
mutation insertPaymentHistory($objects: [paymentHistory_insert_input!]!) {
  insertPaymentHistory(objects: $objects) {
    affected_rows
  }
}`

// Dailycloak is the central store holding customerPaymentIntent records and
// the organization routing data embedded in them.
type Dailycloak struct {
	client *gql.Client
	secret string
	log    *zerolog.Logger
}

func NewDailycloak(cfg config.DailycloakConfig, logger *zerolog.Logger) *Dailycloak {
	return &Dailycloak{
		client: gql.NewClient(cfg.URL),
		secret: cfg.AdminSecret,
		log:    logger,
	}
}

type recordRow struct {
	ID                  string `json:"id"`
	TransferGroup       string `json:"transferGroup"`
	SMSAttempt          int    `json:"smsAttempt"`
	PaymentRetryAttempt int    `json:"paymentRetryAttempt"`
	Organization        struct {
		ID              string `json:"id"`
		StripeAccountID string `json:"stripeAccountId"`
		AdminSecret     string `json:"adminSecret"`
		OrganizationURL string `json:"organizationUrl"`
	} `json:"organization"`
}

func (s *Dailycloak) FindByStripeID(ctx context.Context, kind model.ObjectKind, objectID string) ([]*model.CustomerPaymentIntent, error) {
	var req *gql.Request
	if kind == model.KindInvoice {
		req = gql.NewRequest(queryRecordByInvoiceID)
		req.Var("stripeInvoiceId", objectID)
	} else {
		req = gql.NewRequest(queryRecordByPaymentIntentID)
		req.Var("stripePaymentIntentId", objectID)
	}

	var resp struct {
		CustomerPaymentIntents []recordRow `json:"customerPaymentIntents"`
	}
	if err := run(ctx, s.client, "dailycloak", "findByStripeId", s.secret, req, &resp); err != nil {
		return nil, fmt.Errorf("dailycloak lookup: %w", err)
	}

	records := make([]*model.CustomerPaymentIntent, 0, len(resp.CustomerPaymentIntents))
	for _, row := range resp.CustomerPaymentIntents {
		records = append(records, &model.CustomerPaymentIntent{
			ID:                  row.ID,
			CartID:              row.TransferGroup,
			SMSAttempt:          row.SMSAttempt,
			PaymentRetryAttempt: row.PaymentRetryAttempt,
			Organization: &model.Organization{
				ID:              row.Organization.ID,
				StripeAccountID: row.Organization.StripeAccountID,
				AdminSecret:     row.Organization.AdminSecret,
				OrganizationURL: row.Organization.OrganizationURL,
			},
		})
	}
	return records, nil
}

func (s *Dailycloak) UpdatePaymentIntent(ctx context.Context, recordID string, patch repository.RecordPatch) error {
	set, inc, prepend := recordPatchVars(patch)

	req := gql.NewRequest(mutationUpdateRecord)
	req.Var("id", recordID)
	req.Var("set", set)
	req.Var("inc", inc)
	req.Var("prepend", prepend)

	var resp struct {
		UpdateCustomerPaymentIntents struct {
			AffectedRows int `json:"affected_rows"`
		} `json:"updateCustomerPaymentIntents"`
	}
	if err := run(ctx, s.client, "dailycloak", "updateCustomerPaymentIntent", s.secret, req, &resp); err != nil {
		return fmt.Errorf("dailycloak update: %w", err)
	}
	return nil
}

func (s *Dailycloak) InsertHistory(ctx context.Context, recordID string, entries ...*model.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	objects := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		objects = append(objects, map[string]interface{}{
			"id":                      e.ID,
			"customerPaymentIntentId": recordID,
			"type":                    string(e.Type),
			"status":                  string(e.Status),
			"transactionRemark":       e.Snapshot,
		})
	}

	req := gql.NewRequest(mutationInsertPaymentHistory)
	req.Var("objects", objects)

	var resp struct {
		InsertPaymentHistory struct {
			AffectedRows int `json:"affected_rows"`
		} `json:"insertPaymentHistory"`
	}
	if err := run(ctx, s.client, "dailycloak", "insertPaymentHistory", s.secret, req, &resp); err != nil {
		return fmt.Errorf("dailycloak insert history: %w", err)
	}
	return nil
}

// recordPatchVars shapes a RecordPatch into the _set / _inc / _prepend
// variables of the update mutation. History snapshots are wrapped in
// single-element arrays so the store prepends them onto the existing jsonb
// array, newest first.
func recordPatchVars(patch repository.RecordPatch) (set, inc, prepend map[string]interface{}) {
	set = map[string]interface{}{}
	inc = map[string]interface{}{}
	prepend = map[string]interface{}{}

	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.TransactionRemark != nil {
		set["transactionRemark"] = patch.TransactionRemark
	}
	if patch.StripeInvoiceID != nil {
		set["stripeInvoiceId"] = *patch.StripeInvoiceID
	}
	if patch.StripeInvoiceDetails != nil {
		set["stripeInvoiceDetails"] = patch.StripeInvoiceDetails
	}
	if patch.Requires3DSecure != nil {
		set["requires3dSecure"] = *patch.Requires3DSecure
	}
	if patch.IncSMSAttempt != 0 {
		inc["smsAttempt"] = patch.IncSMSAttempt
	}
	if patch.IncPaymentRetryAttempt != 0 {
		inc["paymentRetryAttempt"] = patch.IncPaymentRetryAttempt
	}
	if patch.PrependRemarkHistory != nil {
		prepend["transactionRemarkHistory"] = []interface{}{patch.PrependRemarkHistory}
	}
	if patch.PrependInvoiceHistory != nil {
		prepend["stripeInvoiceHistory"] = []interface{}{patch.PrependInvoiceHistory}
	}
	return set, inc, prepend
}
